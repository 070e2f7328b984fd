package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func create(ctx context.Context, tx *sql.Tx, table string, cols []string, values []interface{}) (int64, error) {
	var params []string

	for range cols {
		params = append(params, "?")
	}

	tsql := fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s);`, table, strings.Join(cols, ", "), strings.Join(params, ", "))

	stmt, err := tx.PrepareContext(ctx, tsql)
	if err != nil {
		return -1, fmt.Errorf("create: error preparing sql query: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, values...)
	if err != nil {
		return -1, fmt.Errorf("create: unable to insert record in %s: %w", table, err)
	}

	return result.LastInsertId()
}

func update(ctx context.Context, tx *sql.Tx, table string, cols []string, values []interface{}, column []string, value []interface{}) (int64, error) {
	values = append(values, value...)
	var set []string

	for _, col := range cols {
		set = append(set, fmt.Sprintf("%s = ?", col))
	}

	var conds []string

	for _, c := range column {
		conds = append(conds, fmt.Sprintf("%s = ?", c))
	}

	tsql := fmt.Sprintf(`UPDATE %s SET %s WHERE %s;`, table, strings.Join(set, ", "), strings.Join(conds, " AND "))

	stmt, err := tx.PrepareContext(ctx, tsql)
	if err != nil {
		return -1, fmt.Errorf("update: error preparing sql query: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, values...)
	if err != nil {
		return -1, fmt.Errorf("update: unable to update record in %s: %w", table, err)
	}

	return result.RowsAffected()
}

// upsert inserts a row or overwrites the listed columns when the unique key already exists.
func upsert(ctx context.Context, db *sql.DB, table string, cols []string, values []interface{}, overwrite []string) error {
	var params, set []string

	for range cols {
		params = append(params, "?")
	}

	for _, col := range overwrite {
		set = append(set, fmt.Sprintf("%s = VALUES(%s)", col, col))
	}

	tsql := fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s;`,
		table, strings.Join(cols, ", "), strings.Join(params, ", "), strings.Join(set, ", "))

	if _, err := db.ExecContext(ctx, tsql, values...); err != nil {
		return fmt.Errorf("upsert: unable to write record in %s: %w", table, err)
	}

	return nil
}

func remove(ctx context.Context, tx *sql.Tx, table string, column []string, value []interface{}) (int64, error) {
	var conds []string

	for _, c := range column {
		conds = append(conds, fmt.Sprintf("%s = ?", c))
	}

	tsql := fmt.Sprintf(`DELETE FROM %s WHERE %s;`, table, strings.Join(conds, " AND "))

	result, err := tx.ExecContext(ctx, tsql, value...)
	if err != nil {
		return -1, fmt.Errorf("remove: unable to delete record in %s: %w", table, err)
	}

	return result.RowsAffected()
}
