package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS subtypes (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	kind             TEXT NOT NULL CHECK(kind IN ('habit', 'plan', 'list')),
	show_in_calendar INTEGER NOT NULL DEFAULT 1 CHECK(show_in_calendar IN (0, 1)),
	color_id         INTEGER NOT NULL DEFAULT 0,
	icon             TEXT NOT NULL DEFAULT '',
	sort_order       INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS todos (
	id                       TEXT PRIMARY KEY,
	title                    TEXT NOT NULL,
	description              TEXT NOT NULL DEFAULT '',
	due_date                 DATETIME,
	due_time                 DATETIME,
	completed                INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_at             DATETIME,
	starred                  INTEGER NOT NULL DEFAULT 0 CHECK(starred IN (0, 1)),
	reminder_enabled         INTEGER NOT NULL DEFAULT 0 CHECK(reminder_enabled IN (0, 1)),
	recurring_type           TEXT NOT NULL DEFAULT 'none'
		CHECK(recurring_type IN ('none', 'dueDate', 'oneTime', 'daily', 'weekly', 'monthly', 'yearly')),
	recurrence_end_date      DATETIME,
	show_in_calendar         INTEGER NOT NULL DEFAULT 1 CHECK(show_in_calendar IN (0, 1)),
	sort_order               INTEGER NOT NULL DEFAULT 0,
	parent_recurring_todo_id TEXT REFERENCES todos(id) ON DELETE CASCADE,
	subtype_id               TEXT REFERENCES subtypes(id) ON DELETE CASCADE,
	color_id                 INTEGER NOT NULL DEFAULT 0,
	texture_id               INTEGER NOT NULL DEFAULT 0,
	flag_color               TEXT NOT NULL DEFAULT '',
	created_at               DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_todos_due_date ON todos(due_date);
CREATE INDEX IF NOT EXISTS idx_todos_subtype_id ON todos(subtype_id);
CREATE INDEX IF NOT EXISTS idx_todos_parent ON todos(parent_recurring_todo_id);
CREATE INDEX IF NOT EXISTS idx_todos_sort_order ON todos(sort_order);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		// One completion instance per template per calendar day.
		version: 2,
		sql: `
CREATE UNIQUE INDEX IF NOT EXISTS idx_todos_instance_day
	ON todos(parent_recurring_todo_id, date(due_date))
	WHERE parent_recurring_todo_id IS NOT NULL;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
