package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglishReturnsKeys(t *testing.T) {
	l, err := New(English)
	require.NoError(t, err)

	assert.Equal(t, "Start", l.Get(Start))
	assert.Equal(t, "Protocol Distribution", l.Get(ProtocolDist))
	assert.False(t, l.RightToLeft())
}

func TestPersian(t *testing.T) {
	l, err := New(Persian)
	require.NoError(t, err)

	assert.Equal(t, "شروع", l.Get(Start))
	assert.Equal(t, "توقف", l.Get(Stop))
	assert.Equal(t, "unmapped label", l.Get("unmapped label"))
	assert.True(t, l.RightToLeft())
}

func TestSetLanguageRejectsUnknown(t *testing.T) {
	l, err := New(Persian)
	require.NoError(t, err)

	assert.Error(t, l.SetLanguage("de"))
	assert.Equal(t, Persian, l.Language())

	_, err = New("de")
	assert.Error(t, err)
}

func TestEveryKeyHasPersianLabel(t *testing.T) {
	keys := []string{AppTitle, Start, Stop, Clear, Interface, Filter, FilterExample, Packets,
		Statistics, Sniffing, Ready, Error, NoInterface, StartFailed, ColNo, ColTime, ColSource,
		ColDestination, ColProtocol, ColLength, ColInfo, ProtocolDist, NetworkInterfaces, Quit}

	for _, k := range keys {
		_, ok := persian[k]
		assert.True(t, ok, "missing Persian label for %q", k)
	}
}
