// Package records is the duplicate per-user record store kept in PostgreSQL:
// account rows for login plus bookmark pair rows. The bookmark rows are a
// cache of the Mongo user document's bookmark set, rewritten after every
// toggle — never an independently-writable second source of truth.
package records

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/umarfaroukpa/chatter-platform-sub000/pkg/common"
)

type Record struct {
	Id       string `json:"id"`
	AuthId   string `json:"authId"`
	Username string `json:"username"`
	Password []byte `json:"-"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Add(rec *Record) (string, error) {
	result, err := s.db.Exec(
		"INSERT INTO users(auth_id, username, password) VALUES($1, $2, $3)",
		rec.AuthId, rec.Username, rec.Password)
	if err != nil {
		return ``, err
	}
	recID, lastIdErr := result.LastInsertId()
	if lastIdErr != nil {
		return ``, fmt.Errorf("user/records: record wasn't added: %w", lastIdErr)
	}
	if recID == 0 {
		return ``, fmt.Errorf("user/records: record wasn't added, LastInsertId is 0")
	}
	return strconv.FormatInt(recID, 10), nil
}

func (s *Store) GetByUsernameAndPass(uname string, pass string) (*Record, error) {
	row := s.db.QueryRow("SELECT id, auth_id, username, password FROM users where username=$1", uname)
	rec := new(Record)
	if err := row.Scan(&rec.Id, &rec.AuthId, &rec.Username, &rec.Password); err != nil {
		return nil, fmt.Errorf("user/records: row scan failed: %w", err)
	}
	// Record found by username, now check if passwords are the same
	salt := string(rec.Password[0:8])
	if !bytes.Equal(common.HashPass(pass, salt), rec.Password) {
		return nil, errors.New("user/records: password is invalid")
	}
	return rec, nil
}

func (s *Store) UserExists(uname string) bool {
	row := s.db.QueryRow("SELECT id FROM users where username=$1", uname)
	rec := new(Record)
	if err := row.Scan(&rec.Id); err != nil {
		log.Printf("user/records: could not scan row: %v", err)
		return false
	}
	return true
}

// ReplaceBookmarks rewrites the bookmark cache rows for one user to exactly
// postIds. The delete and inserts run in one transaction so a reader of the
// cache never sees a half-rewritten set.
func (s *Store) ReplaceBookmarks(ctx context.Context, authId string, postIds []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user/records: failed starting bookmark rewrite: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bookmarks WHERE auth_id=$1", authId); err != nil {
		tx.Rollback()
		return fmt.Errorf("user/records: failed clearing bookmarks: %w", err)
	}
	for _, postId := range postIds {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bookmarks(auth_id, post_id) VALUES($1, $2)", authId, postId)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("user/records: failed inserting bookmark %s: %w", postId, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("user/records: failed committing bookmark rewrite: %w", err)
	}
	return nil
}

// GetBookmarks reads the cached bookmark post ids for one user.
func (s *Store) GetBookmarks(ctx context.Context, authId string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT post_id FROM bookmarks WHERE auth_id=$1", authId)
	if err != nil {
		return nil, fmt.Errorf("user/records: failed querying bookmarks: %w", err)
	}
	defer rows.Close()

	postIds := []string{}
	for rows.Next() {
		var postId string
		if err := rows.Scan(&postId); err != nil {
			return nil, fmt.Errorf("user/records: could not scan row: %w", err)
		}
		postIds = append(postIds, postId)
	}
	return postIds, nil
}

// Returns all user records. Used only for seeding the DB.
func (s *Store) GetAll() ([]*Record, error) {
	rows, err := s.db.Query("SELECT id, auth_id, username, password FROM users")
	if err != nil {
		return nil, fmt.Errorf("user/records: failed executing query for getting all records: %w", err)
	}
	defer rows.Close()

	recs := []*Record{}
	for rows.Next() {
		rec := new(Record)
		err := rows.Scan(&rec.Id, &rec.AuthId, &rec.Username, &rec.Password)
		if err != nil {
			return nil, fmt.Errorf("user/records: could not scan row: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}
