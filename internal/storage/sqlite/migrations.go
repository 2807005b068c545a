package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as TEXT so decimals round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS gatherings (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    gathering_id TEXT NOT NULL,
    name TEXT NOT NULL,
    FOREIGN KEY (gathering_id) REFERENCES gatherings(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    gathering_id TEXT NOT NULL,
    title TEXT NOT NULL,
    amount TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (gathering_id) REFERENCES gatherings(id) ON DELETE CASCADE,
    FOREIGN KEY (payer_id) REFERENCES participants(id)
);

CREATE TABLE IF NOT EXISTS round_exclusions (
    round_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (round_id, participant_id),
    FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE,
    FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS share_links (
    token TEXT PRIMARY KEY,
    gathering_id TEXT NOT NULL,
    expires_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (gathering_id) REFERENCES gatherings(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_gatherings_owner_id ON gatherings(owner_id);
CREATE INDEX IF NOT EXISTS idx_participants_gathering_id ON participants(gathering_id);
CREATE INDEX IF NOT EXISTS idx_rounds_gathering_id ON rounds(gathering_id);
CREATE INDEX IF NOT EXISTS idx_rounds_payer_id ON rounds(payer_id);
CREATE INDEX IF NOT EXISTS idx_round_exclusions_round_id ON round_exclusions(round_id);
CREATE INDEX IF NOT EXISTS idx_share_links_gathering_id ON share_links(gathering_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
