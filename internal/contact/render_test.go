package contact

import (
	"html"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illegalcall/second-opinion/internal/models"
)

func TestRender_RowsInOrder(t *testing.T) {
	fields := validFields()
	fields["insurance"] = "Bupa"
	fields["chronic"] = "Type 2 diabetes"
	fields["city"] = ""

	out, err := Render(fields)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<html><body><table"))
	assert.True(t, strings.HasSuffix(out, "</table></body></html>"))

	labels := []string{">Name<", ">Email<", ">Phone<", ">Requested Treatment<", ">Chronic / Meds / HbA1c<", ">Insurance<"}
	last := -1
	for _, l := range labels {
		idx := strings.Index(out, l)
		require.NotEqual(t, -1, idx, "missing %s", l)
		assert.Greater(t, idx, last, "%s out of order", l)
		last = idx
	}

	assert.NotContains(t, out, ">City<")
	assert.NotContains(t, out, "N/A")
	assert.Equal(t, 6, strings.Count(out, "<tr>"))
}

func TestRender_OmitsEmail(t *testing.T) {
	fields := validFields()
	fields["email"] = ""

	out, err := Render(fields)
	require.NoError(t, err)
	assert.NotContains(t, out, ">Email<")
}

func TestRender_EscapesValues(t *testing.T) {
	fields := validFields()
	fields["name"] = `<script>alert("x")</script> & 'friends'`
	fields["medications"] = `<img src=x onerror=alert(1)>`

	out, err := Render(fields)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; &#39;friends&#39;")
}

func TestRender_LineBreaks(t *testing.T) {
	fields := validFields()
	fields["medical_conditions"] = "Asthma\r\nHypertension\nAnaemia"
	fields["name"] = "Jane\nDoe"

	out, err := Render(fields)
	require.NoError(t, err)
	assert.Contains(t, out, "Asthma<br>\nHypertension<br>\nAnaemia")
	assert.Contains(t, out, "Jane<br>\nDoe")
	assert.NotContains(t, out, "\r")
}

// The rendered value cell must never contain a raw special character.
func TestRender_NoRawSpecialCharacters(t *testing.T) {
	f := func(s string) bool {
		fields := validFields()
		fields["allergies"] = "x" + s + `&<>"'`

		out, err := Render(fields)
		if err != nil {
			return false
		}
		cell := valueCell(t, out, "Allergies")
		cell = strings.ReplaceAll(cell, "<br>", "")
		return !strings.ContainsAny(cell, `<>"'`) && strings.Count(cell, "&") == entityCount(cell)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestEscapeValue_RoundTrip(t *testing.T) {
	f := func(s string) bool {
		if strings.ContainsRune(s, 0) {
			return true
		}
		return html.UnescapeString(escapeValue(s)) == s
	}
	require.NoError(t, quick.Check(f, nil))

	for _, s := range []string{`&<>"'`, "Tom & Jerry's \"clinic\"", "&amp; already", "a<b>c"} {
		assert.Equal(t, s, html.UnescapeString(escapeValue(s)))
	}
}

func valueCell(t *testing.T, out, label string) string {
	t.Helper()
	start := strings.Index(out, ">"+label+"</td>")
	require.NotEqual(t, -1, start)
	rest := out[start+len(label)+len("></td>"):]
	open := strings.Index(rest, ">")
	end := strings.Index(rest, "</td>")
	return rest[open+1 : end]
}

func entityCount(s string) int {
	n := 0
	for _, e := range []string{"&amp;", "&lt;", "&gt;", "&#34;", "&#39;"} {
		n += strings.Count(s, e)
	}
	return n
}

func TestRender_EmptyFieldSet(t *testing.T) {
	out, err := Render(models.FieldSet{})
	require.NoError(t, err)
	assert.NotContains(t, out, "<tr>")
}
