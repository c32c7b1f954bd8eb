package internal

const COOKIE_SESSION_NAME = "egazette_session"
