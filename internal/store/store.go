package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists room state in sqlite. One authoritative row per room.
type Store struct {
	db *sql.DB
}

type Room struct {
	RoomID      string    `json:"room_id"`
	CodeContent string    `json:"code_content"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const DefaultLanguage = "python"

func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		room_id TEXT PRIMARY KEY,
		code_content TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT 'python',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_rooms_updated_at ON rooms(updated_at);
	`

	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRoom mints a new room with a unique ID and empty buffer.
func (s *Store) CreateRoom(language string) (*Room, error) {
	if language == "" {
		language = DefaultLanguage
	}
	id := uuid.NewString()

	_, err := s.db.Exec(
		"INSERT INTO rooms (room_id, code_content, language) VALUES (?, '', ?)",
		id, language,
	)
	if err != nil {
		return nil, err
	}
	return s.GetRoom(id)
}

// GetRoom returns the room, or (nil, nil) if no such room exists.
func (s *Store) GetRoom(id string) (*Room, error) {
	row := s.db.QueryRow(
		"SELECT room_id, code_content, language, created_at, updated_at FROM rooms WHERE room_id = ?",
		id,
	)

	var room Room
	err := row.Scan(&room.RoomID, &room.CodeContent, &room.Language, &room.CreatedAt, &room.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// SaveCode overwrites the room's buffer. Last writer wins; no merge.
func (s *Store) SaveCode(id, code string) error {
	_, err := s.db.Exec(
		"UPDATE rooms SET code_content = ?, updated_at = CURRENT_TIMESTAMP WHERE room_id = ?",
		code, id,
	)
	return err
}

func (s *Store) ListRooms(limit, offset int) ([]Room, error) {
	rows, err := s.db.Query(
		"SELECT room_id, code_content, language, created_at, updated_at FROM rooms ORDER BY updated_at DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.RoomID, &room.CodeContent, &room.Language, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *Store) DeleteRoom(id string) error {
	_, err := s.db.Exec("DELETE FROM rooms WHERE room_id = ?", id)
	return err
}

func (s *Store) RoomCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM rooms").Scan(&count)
	return count, err
}
