package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/forgo/guildhall/api/internal/database"
	"github.com/forgo/guildhall/api/internal/model"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// nextID returns an expression that allocates the next integer key for
// table and evaluates to the new record id. It must run in the same
// statement as the CREATE that uses it.
func nextID(table string) string {
	return fmt.Sprintf("type::thing('%s', (UPSERT ONLY id_counter:%s SET seq += 1 RETURN VALUE seq))", table, table)
}

// thing returns a record id expression for a variable holding an integer key.
func thing(table, varName string) string {
	return fmt.Sprintf("type::thing('%s', $%s)", table, varName)
}

// isUniqueConstraintError checks if an error is a unique index violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, database.ErrDuplicate) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "already contains") ||
		strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// recordKey extracts the integer key from a record id such as quest:42.
// It returns 0 when the id has no integer key.
func recordKey(id interface{}) int {
	switch v := id.(type) {
	case models.RecordID:
		return keyValue(v.ID)
	case *models.RecordID:
		if v != nil {
			return keyValue(v.ID)
		}
	case string:
		if i := strings.LastIndex(v, ":"); i >= 0 {
			v = v[i+1:]
		}
		return keyValue(strings.Trim(v, "⟨⟩`"))
	case map[string]interface{}:
		if inner, ok := v["id"]; ok {
			return keyValue(inner)
		}
		if inner, ok := v["ID"]; ok {
			return keyValue(inner)
		}
	}
	return 0
}

func keyValue(v interface{}) int {
	switch k := v.(type) {
	case int:
		return k
	case int64:
		return int(k)
	case uint64:
		if k > math.MaxInt64 {
			return 0
		}
		return int(k)
	case float64:
		return int(k)
	case string:
		if n, err := strconv.Atoi(k); err == nil {
			return n
		}
	}
	return 0
}

// asRecord unwraps a single record map from a query result
func asRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result format %T", result)
	}
	return data, nil
}

// statementRecords returns the records of statement i from a Query result
func statementRecords(results []interface{}, i int) []map[string]interface{} {
	if i < 0 || i >= len(results) {
		return nil
	}
	resp, ok := results[i].(map[string]interface{})
	if !ok {
		return nil
	}
	items, ok := resp["result"].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// extractCount reads the count from a `SELECT count() ... GROUP ALL`
// statement result. GROUP ALL over no rows yields no record, which is 0.
func extractCount(result interface{}) int {
	resp, ok := result.(map[string]interface{})
	if !ok {
		return 0
	}
	if rows, ok := resp["result"].([]interface{}); ok {
		if len(rows) == 0 {
			return 0
		}
		if data, ok := rows[0].(map[string]interface{}); ok {
			return extractCountValue(data["count"])
		}
		return 0
	}
	return extractCountValue(resp["count"])
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

// listQuery describes a filtered, id-ordered listing
type listQuery struct {
	table string
	where []string
	vars  map[string]interface{}
}

func newListQuery(table string) *listQuery {
	return &listQuery{table: table, vars: make(map[string]interface{})}
}

// eq adds an equality predicate against a plain value
func (q *listQuery) eq(field string, value interface{}) *listQuery {
	q.where = append(q.where, fmt.Sprintf("%s = $%s", field, field))
	q.vars[field] = value
	return q
}

// link adds an equality predicate against a record link
func (q *listQuery) link(field, table string, id int) *listQuery {
	varName := field + "_id"
	q.where = append(q.where, fmt.Sprintf("%s = %s", field, thing(table, varName)))
	q.vars[varName] = id
	return q
}

// raw adds a predicate written by the caller
func (q *listQuery) raw(predicate string, vars map[string]interface{}) *listQuery {
	q.where = append(q.where, predicate)
	for k, v := range vars {
		q.vars[k] = v
	}
	return q
}

func (q *listQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// build returns the count statement followed by the page statement
func (q *listQuery) build(page model.PageRequest) (string, map[string]interface{}) {
	where := q.whereClause()
	query := fmt.Sprintf(
		"SELECT count() AS count FROM %s%s GROUP ALL;\nSELECT * FROM %s%s ORDER BY id LIMIT $limit START $skip;",
		q.table, where, q.table, where,
	)

	vars := make(map[string]interface{}, len(q.vars)+2)
	for k, v := range q.vars {
		vars[k] = v
	}
	vars["limit"] = page.Limit
	vars["skip"] = page.Skip
	return query, vars
}

// queryPage runs q and parses one page of records plus the total count.
func queryPage[T any](ctx context.Context, db database.Database, q *listQuery, page model.PageRequest, parse func(map[string]interface{}) T) (*model.Page[T], error) {
	query, vars := q.build(page)

	results, err := db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", q.table, err)
	}

	total := 0
	if len(results) > 0 {
		total = extractCount(results[0])
	}

	records := statementRecords(results, 1)
	items := make([]T, 0, len(records))
	for _, rec := range records {
		items = append(items, parse(rec))
	}

	return model.NewPage(items, total, page), nil
}

// exists reports whether table:id is present
func exists(ctx context.Context, db database.Database, table string, id int) (bool, error) {
	query := fmt.Sprintf("SELECT VALUE id FROM ONLY %s", thing(table, "id"))
	_, err := db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// deleteRecord removes table:id and reports whether it existed
func deleteRecord(ctx context.Context, db database.Database, table string, id int) (bool, error) {
	query := fmt.Sprintf("DELETE %s RETURN BEFORE", thing(table, "id"))
	results, err := db.Query(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return false, err
	}
	_, err = database.FirstRecord(results)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// setClause accumulates SET assignments for a sparse update. A cleared
// field is assigned NONE, which removes it from the record.
type setClause struct {
	parts []string
	vars  map[string]interface{}
}

func newSetClause() *setClause {
	return &setClause{vars: make(map[string]interface{})}
}

func (s *setClause) value(field string, v interface{}) {
	s.parts = append(s.parts, fmt.Sprintf("%s = $%s", field, field))
	s.vars[field] = v
}

func (s *setClause) clear(field string) {
	s.parts = append(s.parts, field+" = NONE")
}

func (s *setClause) linkTo(field, table string, id int) {
	varName := field + "_id"
	s.parts = append(s.parts, fmt.Sprintf("%s = %s", field, thing(table, varName)))
	s.vars[varName] = id
}

func (s *setClause) empty() bool {
	return len(s.parts) == 0
}

// statement renders UPDATE ... SET ... RETURN AFTER for table:$id
func (s *setClause) statement(table string, id int) (string, map[string]interface{}) {
	parts := append(append([]string{}, s.parts...), "updated_at = time::now()")
	s.vars["id"] = id
	return fmt.Sprintf("UPDATE ONLY %s SET %s RETURN AFTER", thing(table, "id"), strings.Join(parts, ", ")), s.vars
}

// setOptional applies an Optional field: absent is skipped, null clears.
func setOptional[T any](s *setClause, field string, o model.Optional[T]) {
	switch {
	case !o.Set:
	case o.Null:
		s.clear(field)
	default:
		s.value(field, o.Value)
	}
}

// setOptionalLink applies an Optional record link.
func setOptionalLink(s *setClause, field, table string, o model.Optional[int]) {
	switch {
	case !o.Set:
	case o.Null:
		s.clear(field)
	default:
		s.linkTo(field, table, o.Value)
	}
}

// ptrOrNone converts an optional string to a query value; nil becomes NONE
// via the IF expressions in CREATE statements.
func ptrOrNone[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringPtr extracts an optional string value from a map
func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	return keyValue(numberOrNil(m[key]))
}

func numberOrNil(v interface{}) interface{} {
	if _, ok := v.(string); ok {
		return nil
	}
	return v
}

// getFloat extracts a float value from a map
func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getLink extracts the integer key of a record link field
func getLink(m map[string]interface{}, key string) *int {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	if id := recordKey(v); id > 0 {
		return &id
	}
	return nil
}

// getLinkID is getLink for required links
func getLinkID(m map[string]interface{}, key string) int {
	if id := getLink(m, key); id != nil {
		return *id
	}
	return 0
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	switch v := m[key].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	case time.Time:
		return &v
	case models.CustomDateTime:
		t := v.Time
		return &t
	case *models.CustomDateTime:
		if v != nil {
			t := v.Time
			return &t
		}
	}
	return nil
}

// getTimeValue is getTime for required timestamps
func getTimeValue(m map[string]interface{}, key string) time.Time {
	if t := getTime(m, key); t != nil {
		return *t
	}
	return time.Time{}
}

// getStringSlice extracts a string slice from a map
func getStringSlice(m map[string]interface{}, key string) []string {
	if v, ok := m[key].([]interface{}); ok {
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	if v, ok := m[key].([]string); ok {
		return v
	}
	return nil
}
