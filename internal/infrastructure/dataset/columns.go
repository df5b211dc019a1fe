package dataset

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// columnKind is the expected type of a CSV column
type columnKind string

const (
	kindText    columnKind = "text"
	kindInt     columnKind = "integer"
	kindDecimal columnKind = "decimal"
)

// columnRule describes how one column is checked
type columnRule struct {
	name        string
	kind        columnKind
	required    bool
	nonNegative bool
}

// columnRuleBuilder helps build column rules fluently
type columnRuleBuilder struct {
	rule columnRule
}

func column(name string) *columnRuleBuilder {
	return &columnRuleBuilder{rule: columnRule{name: name, kind: kindText}}
}

func (b *columnRuleBuilder) Required() *columnRuleBuilder {
	b.rule.required = true
	return b
}

func (b *columnRuleBuilder) Int() *columnRuleBuilder {
	b.rule.kind = kindInt
	return b
}

func (b *columnRuleBuilder) Decimal() *columnRuleBuilder {
	b.rule.kind = kindDecimal
	return b
}

func (b *columnRuleBuilder) NonNegative() *columnRuleBuilder {
	b.rule.nonNegative = true
	return b
}

func (b *columnRuleBuilder) Build() columnRule {
	return b.rule
}

// tableSchema is the column layout of one CSV file
type tableSchema struct {
	file  string
	rules []columnRule
}

func newTableSchema(file string, builders ...*columnRuleBuilder) tableSchema {
	rules := make([]columnRule, len(builders))
	for i, b := range builders {
		rules[i] = b.Build()
	}
	return tableSchema{file: file, rules: rules}
}

// requiredColumns lists the header names that must be present
func (s tableSchema) requiredColumns() []string {
	var names []string
	for _, r := range s.rules {
		if r.required {
			names = append(names, r.name)
		}
	}
	return names
}

// check validates one row, adding problems to errs. It returns true if the row is usable.
func (s tableSchema) check(row *csvRow, errs *RowErrors) bool {
	ok := true
	for _, rule := range s.rules {
		value := row.get(rule.name)
		if value == "" {
			if rule.required {
				errs.Add(RowError{File: s.file, Row: row.line, Column: rule.name, Message: "value is required"})
				ok = false
			}
			continue
		}

		switch rule.kind {
		case kindInt:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				errs.Add(RowError{File: s.file, Row: row.line, Column: rule.name, Message: "expected integer", Value: value})
				ok = false
				continue
			}
			if rule.nonNegative && n < 0 {
				errs.Add(RowError{File: s.file, Row: row.line, Column: rule.name, Message: "must not be negative", Value: value})
				ok = false
			}
		case kindDecimal:
			d, err := decimal.NewFromString(value)
			if err != nil {
				errs.Add(RowError{File: s.file, Row: row.line, Column: rule.name, Message: "expected decimal", Value: value})
				ok = false
				continue
			}
			if rule.nonNegative && d.IsNegative() {
				errs.Add(RowError{File: s.file, Row: row.line, Column: rule.name, Message: "must not be negative", Value: value})
				ok = false
			}
		}
	}
	return ok
}

// decimalOf parses a checked decimal column; empty yields zero
func decimalOf(row *csvRow, name string) decimal.Decimal {
	value := row.get(name)
	if value == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(value)
}

// intOf parses a checked integer column; empty yields zero
func intOf(row *csvRow, name string) int64 {
	n, _ := strconv.ParseInt(row.get(name), 10, 64)
	return n
}
