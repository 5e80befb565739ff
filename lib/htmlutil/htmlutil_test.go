package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="csrf-token" content="deadbeef==">
<title>JOBCAN MyPage: ホーム</title>
</head>
<body>
<form>
<input type="hidden" name="token" value="a1b2c3">
<input type="text" name="notice" value="">
</form>
</body>
</html>`

func TestGetMeta(t *testing.T) {
	doc, err := ParseDocument([]byte(testPage))
	require.NoError(t, err)

	require.Equal(t, "deadbeef==", GetMeta(doc, "csrf-token"))
	require.Equal(t, "", GetMeta(doc, "does-not-exist"))
}

func TestGetInputValue(t *testing.T) {
	doc, err := ParseDocument([]byte(testPage))
	require.NoError(t, err)

	require.Equal(t, "a1b2c3", GetInputValue(doc, "token"))
	require.Equal(t, "", GetInputValue(doc, "notice"))
	require.Equal(t, "", GetInputValue(doc, "does-not-exist"))
}

func TestGetTitle(t *testing.T) {
	doc, err := ParseDocument([]byte(testPage))
	require.NoError(t, err)
	require.Equal(t, "JOBCAN MyPage: ホーム", GetTitle(doc))

	empty, err := ParseDocument([]byte("<p>no head</p>"))
	require.NoError(t, err)
	require.Equal(t, "", GetTitle(empty))
}

func TestMalformedMarkup(t *testing.T) {
	doc, err := ParseDocument([]byte("<<<><meta name='x' content"))
	require.NoError(t, err)
	require.Equal(t, "", GetMeta(doc, "x"))
}
