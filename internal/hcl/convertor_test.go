package hcl

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/stanrun/internal/options"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestOptionSetFromExpr(t *testing.T) {
	testCases := []struct {
		src  string
		want []string
	}{
		{`{ z = 1, a = 2 }`, []string{"z=1", "a=2"}},
		{`{ "quoted" = "x" }`, []string{"quoted=x"}},
		{`{ algorithm = { hmc = { engine = "nuts" } } }`, []string{"algorithm", "hmc", "engine=nuts"}},
		{`{ big = 12345678901234567890123 }`, []string{"big=12345678901234567890123"}},
		{`{ neg = -2.5, flag = false }`, []string{"neg=-2.5", "flag=false"}},
		{`"a=1  b=2"`, []string{"a=1", "b=2"}},
		{`["a=1", ["b=2"], { c = 3 }]`, []string{"a=1", "b=2", "c=3"}},
		{`null`, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			set, err := optionSetFromExpr(parseExpr(t, tc.src))
			require.NoError(t, err)
			assert.Equal(t, tc.want, options.Serialize(set))
		})
	}
}

func TestOptionSetFromExpr_Errors(t *testing.T) {
	for _, src := range []string{`12`, `true`, `{ a = [1, 2] }`} {
		_, err := optionSetFromExpr(parseExpr(t, src))
		assert.Error(t, err, src)
	}
}

func TestOptionSetFromValue(t *testing.T) {
	set, err := optionSetFromValue(cty.ObjectVal(map[string]cty.Value{
		"b": cty.NumberIntVal(1),
		"a": cty.ObjectVal(map[string]cty.Value{"x": cty.StringVal("y")}),
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "x=y", "b=1"}, options.Serialize(set))

	_, err = optionSetFromValue(cty.UnknownVal(cty.String))
	assert.Error(t, err)
}
