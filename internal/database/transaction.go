package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Tx composes several statements into one BEGIN/COMMIT block that is sent
// to the server in a single round trip. The server runs the block
// atomically; nothing is applied if any statement fails.
//
// Variables passed to Add are namespaced per statement ($email becomes
// $s1_email) so statements built independently can share a block.
// Names bound with Let are visible to every later statement.
//
//	tx := database.NewTx()
//	tx.Let("q", "type::thing('quest', $id)", map[string]interface{}{"id": 7})
//	tx.Add("UPDATE $q SET likes += 1", nil)
//	results, err := tx.Run(ctx, db)
type Tx struct {
	statements []string
	vars       map[string]interface{}
	counter    int
}

// NewTx creates an empty transaction block
func NewTx() *Tx {
	return &Tx{
		vars: make(map[string]interface{}),
	}
}

// Add appends a statement, rewriting its variables to block-unique names.
func (tx *Tx) Add(stmt string, vars map[string]interface{}) *Tx {
	tx.counter++
	tx.statements = append(tx.statements, tx.namespace(stmt, vars))
	return tx
}

// Let binds a block-scoped parameter to the value of expr.
func (tx *Tx) Let(name, expr string, vars map[string]interface{}) *Tx {
	return tx.Add(fmt.Sprintf("LET $%s = %s", name, expr), vars)
}

// Len returns the number of statements in the block
func (tx *Tx) Len() int {
	return len(tx.statements)
}

// Build returns the complete transaction query and merged variables
func (tx *Tx) Build() (string, map[string]interface{}) {
	if len(tx.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tx.statements {
		sb.WriteString(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
		sb.WriteString(";\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tx.vars
}

// Run sends the block and returns the per-statement results.
func (tx *Tx) Run(ctx context.Context, db Database) ([]interface{}, error) {
	query, vars := tx.Build()
	if query == "" {
		return nil, nil
	}
	return db.Query(ctx, query, vars)
}

func (tx *Tx) namespace(stmt string, vars map[string]interface{}) string {
	for name, value := range vars {
		scoped := fmt.Sprintf("s%d_%s", tx.counter, name)
		pattern := regexp.MustCompile(`\$` + regexp.QuoteMeta(name) + `\b`)
		stmt = pattern.ReplaceAllLiteralString(stmt, "$"+scoped)
		tx.vars[scoped] = value
	}
	return stmt
}
