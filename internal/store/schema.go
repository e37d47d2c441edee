package store

// Natural keys (username, post_code, reply_code) carry UNIQUE constraints;
// INSERT OR IGNORE turns collisions into skips instead of errors.
// label/confidence are written out-of-band by the annotator.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    username    TEXT NOT NULL UNIQUE,
    full_name   TEXT,
    bio         TEXT,
    followers   INTEGER NOT NULL DEFAULT 0,
    url         TEXT NOT NULL,
    is_private  INTEGER NOT NULL DEFAULT 0,
    is_verified INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS posts (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    post_code  TEXT NOT NULL UNIQUE,
    username   TEXT NOT NULL,
    post_text  TEXT NOT NULL,
    post_url   TEXT NOT NULL,
    label      INTEGER,
    confidence REAL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS replies (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    reply_code TEXT NOT NULL UNIQUE,
    post_code  TEXT NOT NULL,
    username   TEXT NOT NULL,
    reply_text TEXT NOT NULL,
    reply_url  TEXT NOT NULL,
    label      INTEGER,
    confidence REAL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_posts_username ON posts(username);
CREATE INDEX IF NOT EXISTS idx_replies_post_code ON replies(post_code);
`
