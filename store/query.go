package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"event-manager-backend/model"
)

// Meta comparison operators.
const (
	CompareEqual     = "="
	CompareNotEqual  = "!="
	CompareLike      = "LIKE"
	CompareGTE       = ">="
	CompareLTE       = "<="
	CompareGT        = ">"
	CompareLT        = "<"
	CompareIn        = "IN"
	CompareExists    = "EXISTS"
	CompareNotExists = "NOT EXISTS"
)

// Meta value types used for casting before comparison or ordering.
const (
	TypeChar     = "CHAR"
	TypeNumeric  = "NUMERIC"
	TypeDate     = "DATE"
	TypeDateTime = "DATETIME"
)

// Taxonomy operators and term fields.
const (
	OperatorIn    = "IN"
	OperatorAnd   = "AND"
	OperatorNotIn = "NOT IN"

	FieldTermID = "term_id"
	FieldSlug   = "slug"
)

// Order fields besides meta keys.
const (
	OrderDate      = "date"
	OrderModified  = "modified"
	OrderTitle     = "title"
	OrderMenuOrder = "menu_order"
	OrderRand      = "rand"
	OrderID        = "id"
	OrderMeta      = "meta"
)

const (
	RelationAnd = "AND"
	RelationOr  = "OR"
)

// MetaClause compares one meta key. CompareNotEqual also matches posts without the key.
type MetaClause struct {
	Key     string
	Value   string
	Values  []string
	Compare string
	Type    string
}

// MetaQuery combines clauses and nested groups with one relation.
type MetaQuery struct {
	Relation string
	Clauses  []MetaClause
	Groups   []MetaQuery
}

func (m *MetaQuery) Empty() bool {
	return m == nil || (len(m.Clauses) == 0 && len(m.Groups) == 0)
}

func (m *MetaQuery) relation() string {
	if strings.EqualFold(m.Relation, RelationOr) {
		return RelationOr
	}
	return RelationAnd
}

// TaxClause filters by terms of one taxonomy, either by id or by slug.
type TaxClause struct {
	Taxonomy        string
	Field           string
	Terms           []string
	Operator        string
	IncludeChildren bool
}

// Order is one key of a multi-key sort.
type Order struct {
	Field   string
	MetaKey string
	Type    string
	Desc    bool
}

// Query is the backend-neutral selection of posts.
type Query struct {
	PostTypes []model.PostType
	Statuses  []model.Status
	Author    int64
	Parent    *int64
	IDs       []int64
	Exclude   []int64
	Keywords  string
	Meta      *MetaQuery
	Tax       []TaxClause
	OrderBy   []Order
	Offset    int
	Limit     int
	Seed      int64
}

// Result is one page of a query plus the totals needed for pagination.
type Result struct {
	Posts    []model.Post
	Total    int
	MaxPages int
}

func maxPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	if limit <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// termGroup is a resolved taxonomy clause: every group must match (AND of ORs),
// or none of the ids may match when negate is set.
type termGroup struct {
	ids    []int64
	negate bool
}

// resolveTax turns a clause into id groups. An IN clause whose terms all miss
// resolves to one empty group, which matches nothing.
func resolveTax(ctx context.Context, terms Terms, c TaxClause) ([]termGroup, error) {
	var resolved [][]int64
	for _, raw := range c.Terms {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		t, err := lookupTerm(ctx, terms, c.Taxonomy, c.Field, raw)
		if err != nil {
			return nil, fmt.Errorf("resolveTax: %w", err)
		}
		if t == nil {
			resolved = append(resolved, nil)
			continue
		}
		ids := []int64{t.ID}
		if c.IncludeChildren && c.Operator != OperatorAnd {
			children, err := descendants(ctx, terms, c.Taxonomy, t.ID)
			if err != nil {
				return nil, fmt.Errorf("resolveTax: %w", err)
			}
			ids = append(ids, children...)
		}
		resolved = append(resolved, ids)
	}
	if len(resolved) == 0 {
		return nil, nil
	}

	switch c.Operator {
	case OperatorAnd:
		groups := make([]termGroup, 0, len(resolved))
		for _, ids := range resolved {
			groups = append(groups, termGroup{ids: ids})
		}
		return groups, nil
	case OperatorNotIn:
		return []termGroup{{ids: flatten(resolved), negate: true}}, nil
	}
	return []termGroup{{ids: flatten(resolved)}}, nil
}

func lookupTerm(ctx context.Context, terms Terms, taxonomy, field, value string) (*model.Term, error) {
	if field == FieldTermID || (field == "" && isNumeric(value)) {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, nil
		}
		return terms.TermByID(ctx, taxonomy, id)
	}
	return terms.TermBySlug(ctx, taxonomy, value)
}

func descendants(ctx context.Context, terms Terms, taxonomy string, parent int64) ([]int64, error) {
	all, err := terms.ListTerms(ctx, taxonomy)
	if err != nil {
		return nil, err
	}
	var out []int64
	frontier := []int64{parent}
	for len(frontier) > 0 {
		var next []int64
		for _, t := range all {
			for _, p := range frontier {
				if t.Parent == p {
					out = append(out, t.ID)
					next = append(next, t.ID)
				}
			}
		}
		frontier = next
	}
	return out, nil
}

func flatten(groups [][]int64) []int64 {
	var out []int64
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
