package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("product_attribute_values").
		Select("id", "product_id", "attribute_id").
		Build()

	assert.Equal(t, "SELECT id, product_id, attribute_id FROM product_attribute_values", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("attributes").Build()

	assert.Equal(t, "SELECT * FROM attributes", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	stmt := From("product_attribute_values").
		Select("id").
		Where(Eq("product_id", "p1")).
		Where(Eq("deleted", false)).
		Build()

	assert.Equal(t, "SELECT id FROM product_attribute_values WHERE product_id = @p0 AND deleted = @p1", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "p1",
		"p1": false,
	}, stmt.Params)
}

func TestBuilder_OrderBy(t *testing.T) {
	t.Run("single column", func(t *testing.T) {
		stmt := From("pseudo_transaction_jobs").
			Select("id").
			OrderBy("created_at", Desc).
			Build()

		assert.Equal(t, "SELECT id FROM pseudo_transaction_jobs ORDER BY created_at DESC", stmt.SQL)
	})

	t.Run("tie breaker", func(t *testing.T) {
		stmt := From("pseudo_transaction_jobs").
			Select("id").
			OrderBy("created_at", Asc).
			ThenBy("sequence", Asc).
			Build()

		assert.Equal(t, "SELECT id FROM pseudo_transaction_jobs ORDER BY created_at ASC, sequence ASC", stmt.SQL)
	})

	t.Run("order by replaces previous terms", func(t *testing.T) {
		stmt := From("pseudo_transaction_jobs").
			Select("id").
			OrderBy("created_at", Asc).
			ThenBy("sequence", Asc).
			OrderBy("updated_at", Desc).
			Build()

		assert.Equal(t, "SELECT id FROM pseudo_transaction_jobs ORDER BY updated_at DESC", stmt.SQL)
	})
}

func TestBuilder_LimitAndOffset(t *testing.T) {
	stmt := From("pseudo_transaction_jobs").
		Select("id").
		Limit(10).
		Offset(20).
		Build()

	assert.Equal(t, "SELECT id FROM pseudo_transaction_jobs LIMIT @limit OFFSET @offset", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"limit":  int64(10),
		"offset": int64(20),
	}, stmt.Params)
}

func TestBuilder_CompleteQuery(t *testing.T) {
	stmt := From("pseudo_transaction_jobs").
		Select("id", "entity_id", "action").
		Where(Eq("status", "pending")).
		Where(IsNull("parent_id")).
		OrderBy("created_at", Asc).
		ThenBy("sequence", Asc).
		Limit(50).
		Build()

	expectedSQL := "SELECT id, entity_id, action FROM pseudo_transaction_jobs WHERE status = @p0 AND parent_id IS NULL ORDER BY created_at ASC, sequence ASC LIMIT @limit"
	assert.Equal(t, expectedSQL, stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0":    "pending",
		"limit": int64(50),
	}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	builder := From("product_attribute_values").
		Select("id", "product_id").
		Where(Eq("attribute_id", "a1")).
		Where(Eq("deleted", false)).
		OrderBy("created_at", Desc).
		ThenBy("id", Asc).
		Limit(50).
		Offset(100)

	mainStmt := builder.Build()
	assert.Contains(t, mainStmt.SQL, "ORDER BY created_at DESC, id ASC")
	assert.Contains(t, mainStmt.SQL, "LIMIT @limit")

	countStmt := builder.Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM product_attribute_values WHERE attribute_id = @p0 AND deleted = @p1", countStmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "a1",
		"p1": false,
	}, countStmt.Params)

	// original builder is unchanged
	assert.Equal(t, mainStmt.SQL, builder.Build().SQL)
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("product_attribute_values").Select("id").OrderBy("id", Asc)

	stmt1 := base.Where(Eq("product_id", "p1")).ThenBy("language", Asc).Build()
	stmt2 := base.Where(Eq("attribute_id", "a1")).Build()

	assert.Contains(t, stmt1.SQL, "product_id = @p0")
	assert.Contains(t, stmt1.SQL, "language ASC")
	assert.NotContains(t, stmt1.SQL, "attribute_id")

	assert.Contains(t, stmt2.SQL, "attribute_id = @p0")
	assert.NotContains(t, stmt2.SQL, "language")
}

func TestCondition_Eq(t *testing.T) {
	sql, params := Eq("category", "electronics").SQL(5)

	assert.Equal(t, "category = @p5", sql)
	assert.Equal(t, map[string]interface{}{"p5": "electronics"}, params)
}

func TestCondition_Ne(t *testing.T) {
	sql, params := Ne("id", "pav-1").SQL(2)

	assert.Equal(t, "id != @p2", sql)
	assert.Equal(t, map[string]interface{}{"p2": "pav-1"}, params)
}

func TestCondition_In(t *testing.T) {
	sql, params := In("product_id", []string{"p1", "p2"}).SQL(0)

	assert.Equal(t, "product_id IN UNNEST(@p0)", sql)
	assert.Equal(t, map[string]interface{}{"p0": []string{"p1", "p2"}}, params)
}

func TestCondition_NullChecks(t *testing.T) {
	sql, params := IsNull("reference_value").SQL(0)
	assert.Equal(t, "reference_value IS NULL", sql)
	assert.Empty(t, params)

	sql, params = IsNotNull("reference_value").SQL(0)
	assert.Equal(t, "reference_value IS NOT NULL", sql)
	assert.Empty(t, params)
}

func TestBuilder_ParamIndexesSkipNullChecks(t *testing.T) {
	stmt := From("product_attribute_values").
		Select("id").
		Where(Eq("attribute_id", "a1")).
		Where(IsNull("reference_value")).
		Where(In("product_id", []string{"p1"})).
		Build()

	assert.Equal(t, "SELECT id FROM product_attribute_values WHERE attribute_id = @p0 AND reference_value IS NULL AND product_id IN UNNEST(@p1)", stmt.SQL)
	assert.Len(t, stmt.Params, 2)
}

func TestBuilder_String(t *testing.T) {
	str := From("attributes").
		Select("id", "name").
		Where(Eq("deleted", false)).
		String()

	require.NotEmpty(t, str)
	assert.Contains(t, str, "SQL:")
	assert.Contains(t, str, "Params:")
	assert.Contains(t, str, "attributes")
}

func TestCondition_Raw(t *testing.T) {
	stmt := From("product_attribute_values").
		Select("id").
		Where(Eq("attribute_id", "a1")).
		Where(Raw("product_id IN (SELECT product_id FROM products WHERE deleted = @gone)", map[string]interface{}{"gone": false})).
		Build()

	assert.Equal(t, "SELECT id FROM product_attribute_values WHERE attribute_id = @p0 AND product_id IN (SELECT product_id FROM products WHERE deleted = @gone)", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "a1", "gone": false}, stmt.Params)
}
