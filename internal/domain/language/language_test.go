package language

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		text string
		want Language
	}{
		{"東京の天気は？", Japanese},
		{"カタカナ", Japanese},
		{"दिल्ली में मौसम कैसा है?", Hindi},
		{"What's the weather in London?", English},
		{"Bonjour, quel temps fait-il à Paris?", English},
		{"", English},
		{"12345", English},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Detect(tc.text), tc.text)
	}
}

func TestDetectJapaneseWinsOverDevanagari(t *testing.T) {
	require.Equal(t, Japanese, Detect("दिल्ली 東京"))
}

func TestCustomRuleChain(t *testing.T) {
	detector := NewDetector([]Rule{
		{Name: "always_hindi", Match: func(string) bool { return true }, Result: Hindi},
	})
	require.Equal(t, Hindi, detector.Detect("hello"))

	empty := NewDetector([]Rule{})
	require.Equal(t, Default, empty.Detect("東京"))
}

func TestLocaleMetadata(t *testing.T) {
	require.Equal(t, "ja-JP", Japanese.SpeechLocale())
	require.Equal(t, "hi-IN", Hindi.SpeechLocale())
	require.Equal(t, "Hindi", Hindi.EnglishName())
	require.Equal(t, "日本語", Japanese.DisplayName())
	require.Equal(t, "en-US", Language("xx").SpeechLocale())

	lang, ok := Parse(" JA ")
	require.True(t, ok)
	require.Equal(t, Japanese, lang)
	_, ok = Parse("fr")
	require.False(t, ok)
}
