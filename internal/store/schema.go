package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    file_path    TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    mtime_ns     INTEGER NOT NULL,
    size_bytes   INTEGER NOT NULL,
    requests     INTEGER NOT NULL,
    parsed_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS requests (
    file_path     TEXT NOT NULL REFERENCES datasets(file_path) ON DELETE CASCADE,
    seq           INTEGER NOT NULL,
    ts            TEXT NOT NULL,
    input_tokens  INTEGER NOT NULL,
    output_tokens INTEGER NOT NULL,
    PRIMARY KEY (file_path, seq)
);

CREATE INDEX IF NOT EXISTS idx_requests_ts ON requests(ts);
`
