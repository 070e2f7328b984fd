package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"event-manager-backend/model"

	"github.com/jmoiron/sqlx"
)

// MySQL is the Backend over the WordPress-like relational layout.
type MySQL struct {
	db *sqlx.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: sqlx.NewDb(db, "mysql")}
}

func (m *MySQL) CreateTables(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := m.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("createTables: %w", err)
		}
	}
	return nil
}

func (m *MySQL) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := m.db.GetContext(ctx, &p, postSelect+` WHERE p.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getPost: post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getPost: error fetching post %d: %w", id, err)
	}
	return &p, nil
}

func postValues(p *model.Post) []interface{} {
	return []interface{}{
		p.Type,
		p.Title,
		p.Content,
		p.Status,
		p.Author,
		p.Parent,
		p.MenuOrder,
		p.GUID,
		p.MimeType,
		p.Date,
		p.Modified,
	}
}

func (m *MySQL) InsertPost(ctx context.Context, p *model.Post) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("insertPost: error begining db transaction: %w", err)
	}

	id, err := create(ctx, tx, postsTable, postCols, postValues(p))
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insertPost: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insertPost: error commiting post: %w", err)
	}
	return id, nil
}

func (m *MySQL) UpdatePost(ctx context.Context, p *model.Post) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("updatePost: error begining db transaction: %w", err)
	}

	if _, err := update(ctx, tx, postsTable, postCols, postValues(p), []string{"id"}, []interface{}{p.ID}); err != nil {
		tx.Rollback()
		return fmt.Errorf("updatePost: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("updatePost: error commiting post %d: %w", p.ID, err)
	}
	return nil
}

func (m *MySQL) DeletePost(ctx context.Context, id int64) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deletePost: error begining db transaction: %w", err)
	}

	n, err := remove(ctx, tx, postsTable, []string{"id"}, []interface{}{id})
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("deletePost: %w", err)
	}
	if n == 0 {
		tx.Rollback()
		return fmt.Errorf("deletePost: post %d: %w", id, ErrNotFound)
	}
	if _, err := remove(ctx, tx, postmetaTable, []string{"post_id"}, []interface{}{id}); err != nil {
		tx.Rollback()
		return fmt.Errorf("deletePost: %w", err)
	}
	if _, err := remove(ctx, tx, relTable, []string{"object_id"}, []interface{}{id}); err != nil {
		tx.Rollback()
		return fmt.Errorf("deletePost: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deletePost: error commiting delete of %d: %w", id, err)
	}
	return nil
}

func (m *MySQL) GetMeta(ctx context.Context, id int64, key string) (string, error) {
	var v sql.NullString
	err := m.db.GetContext(ctx, &v, `SELECT meta_value FROM postmeta WHERE post_id = ? AND meta_key = ?`, id, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getMeta: error fetching %s of %d: %w", key, id, err)
	}
	return v.String, nil
}

type metaRow struct {
	Key   string         `db:"meta_key"`
	Value sql.NullString `db:"meta_value"`
}

func (m *MySQL) AllMeta(ctx context.Context, id int64) (map[string]string, error) {
	var rows []metaRow
	if err := m.db.SelectContext(ctx, &rows, `SELECT meta_key, meta_value FROM postmeta WHERE post_id = ?`, id); err != nil {
		return nil, fmt.Errorf("allMeta: error fetching meta of %d: %w", id, err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value.String
	}
	return out, nil
}

func (m *MySQL) SetMeta(ctx context.Context, id int64, key, value string) error {
	err := upsert(ctx, m.db.DB, postmetaTable, []string{"post_id", "meta_key", "meta_value"}, []interface{}{id, key, value}, []string{"meta_value"})
	if err != nil {
		return fmt.Errorf("setMeta: %w", err)
	}
	return nil
}

func (m *MySQL) DeleteMeta(ctx context.Context, id int64, key string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM postmeta WHERE post_id = ? AND meta_key = ?`, id, key); err != nil {
		return fmt.Errorf("deleteMeta: error deleting %s of %d: %w", key, id, err)
	}
	return nil
}

const termSelect = `SELECT term_id, taxonomy, name, slug, parent FROM terms`

func (m *MySQL) getTerm(ctx context.Context, q string, args ...interface{}) (*model.Term, error) {
	var t model.Term
	err := m.db.GetContext(ctx, &t, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *MySQL) TermByID(ctx context.Context, taxonomy string, id int64) (*model.Term, error) {
	t, err := m.getTerm(ctx, termSelect+` WHERE taxonomy = ? AND term_id = ?`, taxonomy, id)
	if err != nil {
		return nil, fmt.Errorf("termByID: error fetching term %d: %w", id, err)
	}
	return t, nil
}

func (m *MySQL) TermBySlug(ctx context.Context, taxonomy, slug string) (*model.Term, error) {
	t, err := m.getTerm(ctx, termSelect+` WHERE taxonomy = ? AND slug = ?`, taxonomy, slug)
	if err != nil {
		return nil, fmt.Errorf("termBySlug: error fetching term %s: %w", slug, err)
	}
	return t, nil
}

func (m *MySQL) ListTerms(ctx context.Context, taxonomy string) ([]model.Term, error) {
	var terms []model.Term
	if err := m.db.SelectContext(ctx, &terms, termSelect+` WHERE taxonomy = ? ORDER BY name ASC`, taxonomy); err != nil {
		return nil, fmt.Errorf("listTerms: error fetching %s: %w", taxonomy, err)
	}
	return terms, nil
}

func (m *MySQL) InsertTerm(ctx context.Context, t *model.Term) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("insertTerm: error begining db transaction: %w", err)
	}

	id, err := create(ctx, tx, termsTable, []string{"taxonomy", "name", "slug", "parent"}, []interface{}{t.Taxonomy, t.Name, t.Slug, t.Parent})
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insertTerm: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insertTerm: error commiting term %s: %w", t.Slug, err)
	}
	return id, nil
}

func (m *MySQL) ObjectTerms(ctx context.Context, id int64, taxonomy string) ([]int64, error) {
	var ids []int64
	err := m.db.SelectContext(ctx, &ids,
		`SELECT r.term_id FROM term_relationships r JOIN terms t ON t.term_id = r.term_id WHERE r.object_id = ? AND t.taxonomy = ? ORDER BY r.term_id`,
		id, taxonomy)
	if err != nil {
		return nil, fmt.Errorf("objectTerms: error fetching %s of %d: %w", taxonomy, id, err)
	}
	return ids, nil
}

func (m *MySQL) SetObjectTerms(ctx context.Context, id int64, taxonomy string, termIDs []int64) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("setObjectTerms: error begining db transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE r FROM term_relationships r JOIN terms t ON t.term_id = r.term_id WHERE r.object_id = ? AND t.taxonomy = ?`,
		id, taxonomy)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("setObjectTerms: error clearing %s of %d: %w", taxonomy, id, err)
	}

	for _, termID := range termIDs {
		if _, err := create(ctx, tx, relTable, []string{"object_id", "term_id"}, []interface{}{id, termID}); err != nil {
			tx.Rollback()
			return fmt.Errorf("setObjectTerms: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("setObjectTerms: error commiting %s of %d: %w", taxonomy, id, err)
	}
	return nil
}

func (m *MySQL) GetOption(ctx context.Context, name string) (string, bool, error) {
	var v string
	err := m.db.GetContext(ctx, &v, `SELECT option_value FROM options WHERE option_name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getOption: error fetching %s: %w", name, err)
	}
	return v, true, nil
}

func (m *MySQL) SetOption(ctx context.Context, name, value string) error {
	if err := upsert(ctx, m.db.DB, optionsTable, []string{"option_name", "option_value"}, []interface{}{name, value}, []string{"option_value"}); err != nil {
		return fmt.Errorf("setOption: %w", err)
	}
	return nil
}

func (m *MySQL) DeleteOption(ctx context.Context, name string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM options WHERE option_name = ?`, name); err != nil {
		return fmt.Errorf("deleteOption: error deleting %s: %w", name, err)
	}
	return nil
}

func (m *MySQL) CreateGeoCacheTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, geoCacheSchema); err != nil {
		return fmt.Errorf("createGeoCacheTable: %w", err)
	}
	return nil
}

func (m *MySQL) GeoLookup(ctx context.Context, objectID int64) (float64, float64, bool, error) {
	var row struct {
		Lat float64 `db:"lat"`
		Lng float64 `db:"lng"`
	}
	err := m.db.GetContext(ctx, &row, `SELECT lat, lng FROM wpem_geo_cache WHERE object_id = ?`, objectID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("geoLookup: error fetching %d: %w", objectID, err)
	}
	return row.Lat, row.Lng, true, nil
}

func (m *MySQL) GeoSave(ctx context.Context, objectID int64, lat, lng float64) error {
	if err := upsert(ctx, m.db.DB, geoCacheTable, []string{"object_id", "lat", "lng"}, []interface{}{objectID, lat, lng}, []string{"lat", "lng"}); err != nil {
		return fmt.Errorf("geoSave: %w", err)
	}
	return nil
}
