package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateConditionEqualsCaseInsensitive(t *testing.T) {
	vars := map[string]string{"x": "Hello"}
	assert.True(t, EvaluateCondition("x", "equals", "hello", vars, nil))
}

func TestEvaluateConditionSymmetry(t *testing.T) {
	vars := map[string]string{"x": "abc", "y": "abc"}
	a := EvaluateCondition("x", "equals", "abc", vars, nil)
	b := EvaluateCondition("y", "equals", "abc", vars, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, a, !EvaluateCondition("x", "notEquals", "abc", vars, nil))
}

func TestEvaluateConditionIsSetIsNotSetComplement(t *testing.T) {
	vars := map[string]string{"x": "abc", "empty": "", "none": "none"}
	assert.True(t, EvaluateCondition("x", "isSet", "", vars, nil))
	assert.False(t, EvaluateCondition("x", "isNotSet", "", vars, nil))
	assert.False(t, EvaluateCondition("empty", "isSet", "", vars, nil))
	assert.False(t, EvaluateCondition("none", "isSet", "", vars, nil))
	assert.False(t, EvaluateCondition("missing", "isSet", "", vars, nil))
	assert.True(t, EvaluateCondition("missing", "isNotSet", "", vars, nil))
}

func TestEvaluateConditionMissingVariableIsFalseExceptSetChecks(t *testing.T) {
	vars := map[string]string{}
	assert.False(t, EvaluateCondition("missing", "equals", "x", vars, nil))
	assert.False(t, EvaluateCondition("missing", "greaterThan", "1", vars, nil))
}

func TestEvaluateConditionNumeric(t *testing.T) {
	vars := map[string]string{"x": "7"}
	assert.True(t, EvaluateCondition("x", "greaterThan", "5", vars, nil))
	assert.False(t, EvaluateCondition("x", "lessThan", "5", vars, nil))
	assert.True(t, EvaluateCondition("x", "greaterOrEquals", "7", vars, nil))
}

func TestEvaluateConditionNumericParseFailureIsFalse(t *testing.T) {
	vars := map[string]string{"x": "not-a-number"}
	assert.False(t, EvaluateCondition("x", "greaterThan", "5", vars, nil))
}

func TestEvaluateConditionRegexWithInlineFlag(t *testing.T) {
	vars := map[string]string{"x": "HELLO"}
	assert.True(t, EvaluateCondition("x", "regex", "^hello$[i]", vars, nil))
	assert.False(t, EvaluateCondition("x", "regex", "^hello$", vars, nil))
}

func TestEvaluateConditionInvalidRegexIsFalse(t *testing.T) {
	vars := map[string]string{"x": "abc"}
	assert.False(t, EvaluateCondition("x", "regex", "(unterminated", vars, nil))
}

func TestEvaluateConditionUnknownComparisonIsFalse(t *testing.T) {
	vars := map[string]string{"x": "abc"}
	warned := false
	assert.False(t, EvaluateCondition("x", "bogus", "abc", vars, func(string) { warned = true }))
	assert.True(t, warned)
}

func TestEvaluateConditionContainsStartsEndsWith(t *testing.T) {
	vars := map[string]string{"x": "Hello World"}
	assert.True(t, EvaluateCondition("x", "contains", "LO WO", vars, nil))
	assert.True(t, EvaluateCondition("x", "startsWith", "hello", vars, nil))
	assert.True(t, EvaluateCondition("x", "endsWith", "WORLD", vars, nil))
}
