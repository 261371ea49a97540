package mock

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// filter is one PostgREST column filter (eq or in)
type filter struct {
	column string
	values []string
}

func (f filter) match(row Row) bool {
	v, ok := row[f.column]
	if !ok {
		return false
	}
	s := valueString(v)
	for _, want := range f.values {
		if s == want {
			return true
		}
	}
	return false
}

// ordering is one column of an order parameter
type ordering struct {
	column string
	desc   bool
}

// query is the parsed PostgREST query string
type query struct {
	filters []filter
	order   []ordering
	columns []string
}

func parseQuery(values url.Values) (query, error) {
	var q query
	for key, vals := range values {
		for _, v := range vals {
			switch key {
			case "select":
				if v != "*" {
					q.columns = strings.Split(v, ",")
				}
			case "order":
				for _, part := range strings.Split(v, ",") {
					fields := strings.Split(part, ".")
					o := ordering{column: fields[0]}
					for _, mod := range fields[1:] {
						if mod == "desc" {
							o.desc = true
						}
					}
					q.order = append(q.order, o)
				}
			default:
				f, err := parseFilter(key, v)
				if err != nil {
					return q, err
				}
				q.filters = append(q.filters, f)
			}
		}
	}
	return q, nil
}

func parseFilter(column, expr string) (filter, error) {
	switch {
	case strings.HasPrefix(expr, "eq."):
		return filter{column: column, values: []string{strings.TrimPrefix(expr, "eq.")}}, nil
	case strings.HasPrefix(expr, "in.(") && strings.HasSuffix(expr, ")"):
		inner := strings.TrimSuffix(strings.TrimPrefix(expr, "in.("), ")")
		return filter{column: column, values: strings.Split(inner, ",")}, nil
	}
	return filter{}, fmt.Errorf("unsupported filter %s=%s", column, expr)
}

// table holds the rows of one table
type table struct {
	rows   []Row
	nextID int64
}

// Store is an in-memory set of tables
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
	now    func() time.Time
}

// NewStore creates the tables and loads the seed rows
func NewStore(seed map[string][]Row) *Store {
	s := &Store{
		tables: make(map[string]*table),
		now:    time.Now,
	}
	for _, name := range Tables {
		t := &table{nextID: 1}
		for _, row := range seed[name] {
			r := normalizeRow(row)
			if id, ok := asInt(r["id"]); ok && id >= t.nextID {
				t.nextID = id + 1
			}
			t.rows = append(t.rows, r)
		}
		s.tables[name] = t
	}
	return s
}

func (s *Store) table(name string) (*table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("relation \"public.%s\" does not exist", name)
	}
	return t, nil
}

// Select returns copies of the rows matching q
func (s *Store) Select(name string, q query) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(name)
	if err != nil {
		return nil, err
	}

	var out []Row
	for _, row := range t.rows {
		if matchAll(row, q.filters) {
			out = append(out, project(row, q.columns))
		}
	}
	sortRows(out, q.order)
	return out, nil
}

// Insert adds rows, assigning ids and created_at
func (s *Store) Insert(name string, rows []Row) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(name)
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		r := normalizeRow(row)
		r["id"] = t.nextID
		t.nextID++
		if _, ok := r["created_at"]; !ok {
			r["created_at"] = s.now().UTC().Format(time.RFC3339)
		}
		t.rows = append(t.rows, r)
		out = append(out, copyRow(r))
	}
	return out, nil
}

// Update applies patch to the rows matching q. The id column is never
// changed.
func (s *Store) Update(name string, q query, patch Row) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(name)
	if err != nil {
		return nil, err
	}

	patch = normalizeRow(patch)
	var out []Row
	for _, row := range t.rows {
		if !matchAll(row, q.filters) {
			continue
		}
		for k, v := range patch {
			if k == "id" {
				continue
			}
			row[k] = v
		}
		out = append(out, copyRow(row))
	}
	return out, nil
}

// Delete removes the rows matching q and returns them
func (s *Store) Delete(name string, q query) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(name)
	if err != nil {
		return nil, err
	}

	var kept, removed []Row
	for _, row := range t.rows {
		if matchAll(row, q.filters) {
			removed = append(removed, row)
		} else {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return removed, nil
}

// Count returns the number of rows in a table
func (s *Store) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[name]; ok {
		return len(t.rows)
	}
	return 0
}

func matchAll(row Row, filters []filter) bool {
	for _, f := range filters {
		if !f.match(row) {
			return false
		}
	}
	return true
}

func project(row Row, columns []string) Row {
	if len(columns) == 0 {
		return copyRow(row)
	}
	out := make(Row, len(columns))
	for _, c := range columns {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}

// sortRows orders rows like PostgREST: nulls last on ascending columns,
// first on descending ones. Rows without an order keep insertion order.
func sortRows(rows []Row, order []ordering) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range order {
			c := compare(rows[i][o.column], rows[j][o.column])
			if c == 0 {
				continue
			}
			if o.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compare treats nil as greater than any value
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	ai, aok := asInt(a)
	bi, bok := asInt(b)
	if aok && bok {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	return strings.Compare(valueString(a), valueString(b))
}

func copyRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// normalizeRow converts integral numbers to int64 so that JSON and YAML
// input compare equal
func normalizeRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		if i, ok := asInt(v); ok {
			out[k] = i
			continue
		}
		out[k] = v
	}
	return out
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
	}
	return 0, false
}

func valueString(v any) string {
	if v == nil {
		return "null"
	}
	if i, ok := asInt(v); ok {
		return fmt.Sprint(i)
	}
	return fmt.Sprint(v)
}
