package query

import "fmt"

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("status", "active") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s = @%s", c.field, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// neCondition implements inequality comparison (field != value).
type neCondition struct {
	field string
	value interface{}
}

// Ne creates a WHERE condition for inequality comparison.
// Example: Ne("id", "pav-1") generates "id != @p0"
func Ne(field string, value interface{}) Condition {
	return &neCondition{field: field, value: value}
}

// SQL generates the SQL fragment for inequality comparison.
func (c *neCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s != @%s", c.field, paramName), map[string]interface{}{
		paramName: c.value,
	}
}

// inCondition implements array membership (field IN UNNEST(values)).
type inCondition struct {
	field  string
	values []string
}

// In creates a WHERE condition matching any of the given string values.
// Example: In("product_id", []string{"a", "b"}) generates "product_id IN UNNEST(@p0)"
func In(field string, values []string) Condition {
	return &inCondition{field: field, values: values}
}

// SQL generates the SQL fragment for array membership.
func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName), map[string]interface{}{
		paramName: c.values,
	}
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("reference_value") generates "reference_value IS NULL"
func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

// isNullCondition implements IS NULL comparison.
type isNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NULL comparison.
func (c *isNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	sql := fmt.Sprintf("%s IS NULL", c.field)
	return sql, map[string]interface{}{}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
// Example: IsNotNull("reference_value") generates "reference_value IS NOT NULL"
func IsNotNull(field string) Condition {
	return &isNotNullCondition{field: field}
}

// isNotNullCondition implements IS NOT NULL comparison.
type isNotNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NOT NULL comparison.
func (c *isNotNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	sql := fmt.Sprintf("%s IS NOT NULL", c.field)
	return sql, map[string]interface{}{}
}

// rawCondition is a verbatim SQL fragment with named parameters.
type rawCondition struct {
	fragment string
	params   map[string]interface{}
}

// Raw creates a WHERE condition from a SQL fragment. Parameter names must
// not collide with the generated @pN names.
// Example: Raw("product_id IN (SELECT product_id FROM products WHERE deleted = FALSE)", nil)
func Raw(fragment string, params map[string]interface{}) Condition {
	return &rawCondition{fragment: fragment, params: params}
}

// SQL returns the fragment unchanged.
func (c *rawCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	params := make(map[string]interface{}, len(c.params))
	for k, v := range c.params {
		params[k] = v
	}
	return c.fragment, params
}
