package store

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"event-manager-backend/model"
)

// Search evaluates q over a snapshot of the posts.
func (m *Memory) Search(ctx context.Context, q *Query) (*Result, error) {
	groups, err := m.taxGroups(ctx, q.Tax)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	m.mu.RLock()
	var matched []model.Post
	for _, p := range m.posts {
		if m.matches(p, q, groups) {
			matched = append(matched, p)
		}
	}
	metaOf := func(id int64, key string) (string, bool) {
		v, ok := m.meta[id][key]
		return v, ok
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], q, metaOf)
	})
	m.mu.RUnlock()

	total := len(matched)
	page := paginate(matched, q.Offset, q.Limit)
	return &Result{Posts: page, Total: total, MaxPages: maxPages(total, q.Limit)}, nil
}

func (m *Memory) taxGroups(ctx context.Context, clauses []TaxClause) ([]termGroup, error) {
	var groups []termGroup
	for _, c := range clauses {
		g, err := resolveTax(ctx, m, c)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g...)
	}
	return groups, nil
}

func (m *Memory) matches(p model.Post, q *Query, groups []termGroup) bool {
	if len(q.PostTypes) > 0 && !containsType(q.PostTypes, p.Type) {
		return false
	}
	if len(q.Statuses) > 0 && !containsStatus(q.Statuses, p.Status) {
		return false
	}
	if q.Author > 0 && p.Author != q.Author {
		return false
	}
	if q.Parent != nil && p.Parent != *q.Parent {
		return false
	}
	if len(q.IDs) > 0 && !containsID(q.IDs, p.ID) {
		return false
	}
	if containsID(q.Exclude, p.ID) {
		return false
	}
	if kw := strings.ToLower(strings.TrimSpace(q.Keywords)); kw != "" {
		if !strings.Contains(strings.ToLower(p.Title), kw) && !strings.Contains(strings.ToLower(p.Content), kw) {
			return false
		}
	}
	for _, g := range groups {
		hit := false
		for _, id := range g.ids {
			if m.rels[p.ID][id] {
				hit = true
				break
			}
		}
		if hit == g.negate {
			return false
		}
	}
	if !q.Meta.Empty() && !m.matchMeta(p.ID, *q.Meta) {
		return false
	}
	return true
}

func (m *Memory) matchMeta(id int64, mq MetaQuery) bool {
	or := mq.relation() == RelationOr
	results := make([]bool, 0, len(mq.Clauses)+len(mq.Groups))
	for _, c := range mq.Clauses {
		v, ok := m.meta[id][c.Key]
		results = append(results, matchClause(c, v, ok))
	}
	for _, g := range mq.Groups {
		if g.Empty() {
			continue
		}
		results = append(results, m.matchMeta(id, g))
	}
	for _, r := range results {
		if or && r {
			return true
		}
		if !or && !r {
			return false
		}
	}
	return !or || len(results) == 0
}

func matchClause(c MetaClause, v string, present bool) bool {
	switch c.Compare {
	case CompareExists:
		return present
	case CompareNotExists:
		return !present
	case CompareNotEqual:
		if !present {
			return true
		}
		cmp, ok := compareValues(v, c.Value, c.Type)
		return !ok || cmp != 0
	}
	if !present {
		return false
	}
	switch c.Compare {
	case CompareLike:
		return strings.Contains(strings.ToLower(v), strings.ToLower(c.Value))
	case CompareIn:
		for _, want := range c.Values {
			if cmp, ok := compareValues(v, want, c.Type); ok && cmp == 0 {
				return true
			}
		}
		return false
	}
	cmp, ok := compareValues(v, c.Value, c.Type)
	if !ok {
		return false
	}
	switch c.Compare {
	case CompareGTE:
		return cmp >= 0
	case CompareLTE:
		return cmp <= 0
	case CompareGT:
		return cmp > 0
	case CompareLT:
		return cmp < 0
	}
	return cmp == 0
}

// compareValues casts both sides to typ. ok is false when a side does not cast, like a NULL in SQL.
func compareValues(a, b, typ string) (int, bool) {
	switch typ {
	case TypeNumeric:
		fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
		fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
		if errA != nil || errB != nil {
			return 0, false
		}
		return compareFloat(fa, fb), true
	case TypeDate, TypeDateTime:
		ta, okA := castTime(a, typ)
		tb, okB := castTime(b, typ)
		if !okA || !okB {
			return 0, false
		}
		return compareTime(ta, tb), true
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b)), true
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func castTime(s, typ string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if typ == TypeDate && len(s) >= 10 {
		s = s[:10]
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// less applies the order keys in turn and falls back to ascending id.
func less(a, b model.Post, q *Query, metaOf func(int64, string) (string, bool)) bool {
	for _, o := range q.OrderBy {
		cmp := compareBy(a, b, o, q.Seed, metaOf)
		if o.Desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
	}
	return a.ID < b.ID
}

func compareBy(a, b model.Post, o Order, seed int64, metaOf func(int64, string) (string, bool)) int {
	switch o.Field {
	case OrderDate:
		return compareTime(a.Date, b.Date)
	case OrderModified:
		return compareTime(a.Modified, b.Modified)
	case OrderTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case OrderMenuOrder:
		return compareInt(int64(a.MenuOrder), int64(b.MenuOrder))
	case OrderRand:
		return compareInt(int64(randKey(seed, a.ID)), int64(randKey(seed, b.ID)))
	case OrderID:
		return compareInt(a.ID, b.ID)
	case OrderMeta:
		va, okA := metaOf(a.ID, o.MetaKey)
		vb, okB := metaOf(b.ID, o.MetaKey)
		return compareMetaOrder(va, okA, vb, okB, o.Type)
	}
	return 0
}

// compareMetaOrder sorts missing or uncastable values first, like NULLs in an ascending SQL sort.
func compareMetaOrder(a string, okA bool, b string, okB bool, typ string) int {
	if okA && typ != "" && typ != TypeChar {
		_, okA = compareValues(a, a, typ)
	}
	if okB && typ != "" && typ != TypeChar {
		_, okB = compareValues(b, b, typ)
	}
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	cmp, _ := compareValues(a, b, typ)
	return cmp
}

// randKey is a stable pseudo random rank of id under seed.
func randKey(seed, id int64) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%d", seed, id)
	return h.Sum32()
}

func paginate(posts []model.Post, offset, limit int) []model.Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []model.Post{}
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	out := make([]model.Post, len(posts))
	copy(out, posts)
	return out
}

func containsType(types []model.PostType, t model.PostType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func containsStatus(statuses []model.Status, s model.Status) bool {
	for _, x := range statuses {
		if x == s {
			return true
		}
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
