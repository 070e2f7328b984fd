package store

import (
	"context"
	"fmt"
	"strings"

	"event-manager-backend/model"

	"github.com/jmoiron/sqlx"
)

// sqlQuery accumulates the clauses of one search. Arguments are kept per clause
// because they are bound in join, where, order order.
type sqlQuery struct {
	joins     []string
	joinArgs  []interface{}
	where     []string
	whereArgs []interface{}
	order     []string
	orderArgs []interface{}
}

func (m *MySQL) Search(ctx context.Context, q *Query) (*Result, error) {
	sq, err := m.build(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	where := ""
	if len(sq.where) > 0 {
		where = " WHERE " + strings.Join(sq.where, " AND ")
	}

	countSQL, countArgs, err := sqlx.In(`SELECT COUNT(*) FROM posts p`+where, sq.whereArgs...)
	if err != nil {
		return nil, fmt.Errorf("search: error expanding count query: %w", err)
	}
	var total int
	if err := m.db.GetContext(ctx, &total, m.db.Rebind(countSQL), countArgs...); err != nil {
		return nil, fmt.Errorf("search: error counting posts: %w", err)
	}

	selectSQL := postSelect + strings.Join(sq.joins, "") + where + " ORDER BY " + strings.Join(sq.order, ", ")
	args := append(append(append([]interface{}{}, sq.joinArgs...), sq.whereArgs...), sq.orderArgs...)
	if q.Limit > 0 {
		selectSQL += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}
	selectSQL, args, err = sqlx.In(selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("search: error expanding query: %w", err)
	}

	posts := []model.Post{}
	if err := m.db.SelectContext(ctx, &posts, m.db.Rebind(selectSQL), args...); err != nil {
		return nil, fmt.Errorf("search: error fetching posts: %w", err)
	}

	return &Result{Posts: posts, Total: total, MaxPages: maxPages(total, q.Limit)}, nil
}

func (m *MySQL) build(ctx context.Context, q *Query) (*sqlQuery, error) {
	sq := &sqlQuery{}
	if len(q.PostTypes) > 0 {
		sq.addWhere("p.post_type IN (?)", q.PostTypes)
	}
	if len(q.Statuses) > 0 {
		sq.addWhere("p.post_status IN (?)", q.Statuses)
	}
	if q.Author > 0 {
		sq.addWhere("p.post_author = ?", q.Author)
	}
	if q.Parent != nil {
		sq.addWhere("p.post_parent = ?", *q.Parent)
	}
	if len(q.IDs) > 0 {
		sq.addWhere("p.id IN (?)", q.IDs)
	}
	if len(q.Exclude) > 0 {
		sq.addWhere("p.id NOT IN (?)", q.Exclude)
	}
	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		like := "%" + escapeLike(kw) + "%"
		sq.addWhere("(p.post_title LIKE ? OR p.post_content LIKE ?)", like, like)
	}

	for _, c := range q.Tax {
		groups, err := resolveTax(ctx, m, c)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			switch {
			case len(g.ids) == 0 && g.negate:
			case len(g.ids) == 0:
				sq.addWhere("1 = 0")
			case g.negate:
				sq.addWhere("p.id NOT IN (SELECT object_id FROM term_relationships WHERE term_id IN (?))", g.ids)
			default:
				sq.addWhere("p.id IN (SELECT object_id FROM term_relationships WHERE term_id IN (?))", g.ids)
			}
		}
	}

	if !q.Meta.Empty() {
		cond, args := metaSQL(*q.Meta)
		if cond != "" {
			sq.addWhere(cond, args...)
		}
	}

	for i, o := range q.OrderBy {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		switch o.Field {
		case OrderDate:
			sq.order = append(sq.order, "p.post_date "+dir)
		case OrderModified:
			sq.order = append(sq.order, "p.post_modified "+dir)
		case OrderTitle:
			sq.order = append(sq.order, "p.post_title "+dir)
		case OrderMenuOrder:
			sq.order = append(sq.order, "p.menu_order "+dir)
		case OrderID:
			sq.order = append(sq.order, "p.id "+dir)
		case OrderRand:
			sq.order = append(sq.order, "CRC32(CONCAT(?, ':', p.id)) "+dir)
			sq.orderArgs = append(sq.orderArgs, q.Seed)
		case OrderMeta:
			alias := fmt.Sprintf("o%d", i)
			sq.joins = append(sq.joins, fmt.Sprintf(" LEFT JOIN postmeta %s ON %s.post_id = p.id AND %s.meta_key = ?", alias, alias, alias))
			sq.joinArgs = append(sq.joinArgs, o.MetaKey)
			sq.order = append(sq.order, cast(alias+".meta_value", o.Type)+" "+dir)
		}
	}
	sq.order = append(sq.order, "p.id ASC")
	return sq, nil
}

func (sq *sqlQuery) addWhere(cond string, args ...interface{}) {
	sq.where = append(sq.where, cond)
	sq.whereArgs = append(sq.whereArgs, args...)
}

func metaSQL(mq MetaQuery) (string, []interface{}) {
	var parts []string
	var args []interface{}
	for _, c := range mq.Clauses {
		cond, a := clauseSQL(c)
		parts = append(parts, cond)
		args = append(args, a...)
	}
	for _, g := range mq.Groups {
		if g.Empty() {
			continue
		}
		cond, a := metaSQL(g)
		parts = append(parts, cond)
		args = append(args, a...)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " "+mq.relation()+" ") + ")", args
}

const metaExists = "EXISTS (SELECT 1 FROM postmeta m WHERE m.post_id = p.id AND m.meta_key = ?%s)"

func clauseSQL(c MetaClause) (string, []interface{}) {
	value := cast("m.meta_value", c.Type)
	switch c.Compare {
	case CompareExists:
		return fmt.Sprintf(metaExists, ""), []interface{}{c.Key}
	case CompareNotExists:
		return "NOT " + fmt.Sprintf(metaExists, ""), []interface{}{c.Key}
	case CompareNotEqual:
		return "NOT " + fmt.Sprintf(metaExists, " AND "+value+" = "+cast("?", c.Type)), []interface{}{c.Key, c.Value}
	case CompareLike:
		return fmt.Sprintf(metaExists, " AND m.meta_value LIKE ?"), []interface{}{c.Key, "%" + escapeLike(c.Value) + "%"}
	case CompareIn:
		if len(c.Values) == 0 {
			return "1 = 0", nil
		}
		return fmt.Sprintf(metaExists, " AND "+value+" IN (?)"), []interface{}{c.Key, c.Values}
	case CompareGTE, CompareLTE, CompareGT, CompareLT:
		return fmt.Sprintf(metaExists, " AND "+value+" "+c.Compare+" "+cast("?", c.Type)), []interface{}{c.Key, c.Value}
	}
	return fmt.Sprintf(metaExists, " AND "+value+" = "+cast("?", c.Type)), []interface{}{c.Key, c.Value}
}

func cast(expr, typ string) string {
	switch typ {
	case TypeNumeric:
		return "CAST(" + expr + " AS DECIMAL(20,6))"
	case TypeDate:
		return "CAST(" + expr + " AS DATE)"
	case TypeDateTime:
		return "CAST(" + expr + " AS DATETIME)"
	}
	return expr
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
