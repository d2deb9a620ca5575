package pkgjson

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteName(t *testing.T) {
	d, err := Parse([]byte(`{"name":"old","version":"1.0.0","scripts":{"start":"x"}}`))
	require.NoError(t, err)

	assert.Equal(t, "old", d.Name())

	require.NoError(t, d.SetName("demo"))

	out, err := d.Marshal()
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"demo","version":"1.0.0","scripts":{"start":"x"}}`, string(out))
	assert.Equal(t, "{\n  \"name\": \"demo\",\n  \"version\": \"1.0.0\",\n  \"scripts\": {\n    \"start\": \"x\"\n  }\n}", string(out))
}

func TestRewritePreservesOrderAndValues(t *testing.T) {
	input := `{
    "private": true,
    "version": "0.0.0",
    "name": "template-react-tailwind",
    "type": "module",
    "scripts": {
        "dev": "vite",
        "build": "tsc -b && vite build",
        "lint": "eslint ."
    },
    "browserslist": ["> 0.5%", "not dead"],
    "size": 1.50,
    "nothing": null
}
`

	d, err := Parse([]byte(input))
	require.NoError(t, err)

	require.NoError(t, d.SetName("my-app"))

	out, err := d.Marshal()
	require.NoError(t, err)

	assert.Equal(t, []string{"private", "version", "name", "type", "scripts", "browserslist", "size", "nothing"}, d.Keys())
	assert.Contains(t, string(out), `"build": "tsc -b && vite build"`, "HTML characters should not be escaped")
	assert.Contains(t, string(out), `"size": 1.50`, "numbers should keep their literal form")
	assert.Contains(t, string(out), `"> 0.5%"`)
	assert.True(t, out[len(out)-1] == '\n', "trailing newline should be kept")

	reparsed, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "my-app", reparsed.Name())
}

func TestSetNameAppendsWhenAbsent(t *testing.T) {
	d, err := Parse([]byte(`{"version":"1.0.0"}`))
	require.NoError(t, err)

	assert.Equal(t, "", d.Name())

	require.NoError(t, d.SetName("demo"))

	assert.Equal(t, []string{"version", "name"}, d.Keys())
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{
		`{"name": "x",`,
		``,
		`[1, 2]`,
		`"just a string"`,
		`{"name": "x"} trailing`,
	} {
		_, err := Parse([]byte(input))
		assert.ErrorIs(t, err, ErrMalformed, input)
	}
}

func TestStartCommand(t *testing.T) {
	var tests = []struct {
		contents string
		expected string
	}{
		{contents: `{"scripts": {"start": "node ./bin/www"}}`, expected: "npm start"},
		{contents: `{"scripts": {"dev": "vite", "build": "vite build"}}`, expected: "npm run dev"},
		{contents: `{"scripts": {"dev": "next dev", "start": "next start"}}`, expected: "npm start"},
		{contents: `{"name": "no-scripts"}`, expected: "npm start"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, StartCommand(context.Background(), []byte(test.contents)), test.contents)
	}
}
