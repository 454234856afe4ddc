package japanese

import (
	"reflect"
	"testing"
)

func TestIsJapaneseText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"食べる", true},
		{"カタカナ", true},
		{"食べる 1", true},
		{"eat", false},
		{"食べる eat", false},
		{"123", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsJapaneseText(tt.in); got != tt.want {
				t.Errorf("IsJapaneseText(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsHiraganaText(t *testing.T) {
	if !IsHiraganaText("たべる") {
		t.Error("たべる should be hiragana")
	}
	if !IsHiraganaText("らーめん") {
		t.Error("prolonged sound mark should be accepted")
	}
	if IsHiraganaText("タベル") || IsHiraganaText("食べる") || IsHiraganaText("") {
		t.Error("non-hiragana accepted")
	}
}

func TestKanaConversion(t *testing.T) {
	if got := HiraganaToKatakana("たべる"); got != "タベル" {
		t.Errorf("HiraganaToKatakana = %q", got)
	}
	if got := HiraganaToKatakana("ゔぁ ok"); got != "ヴァ ok" {
		t.Errorf("HiraganaToKatakana = %q", got)
	}
	if got := KatakanaToHiragana("ラーメン"); got != "らーめん" {
		t.Errorf("KatakanaToHiragana = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ｔｅｓｔ", "test"},
		{"ｶﾞｷﾞ", "ガギ"},
		{"猫　犬", "猫 犬"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScriptSegmenter_Tokenize(t *testing.T) {
	seg := NewScriptSegmenter()
	tests := []struct {
		in   string
		want []string
	}{
		{"食べる", []string{"食", "べる"}},
		{"古家", []string{"古家"}},
		{"ラーメンを食べた", []string{"ラーメン", "を", "食", "べた"}},
		{"hello world", []string{"hello", "world"}},
		{"日本語、2024年", []string{"日本語", "2024", "年"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := seg.Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKanji(t *testing.T) {
	got := Kanji("日本の日本語")
	want := []string{"日", "本", "語"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Kanji() = %v, want %v", got, want)
	}
}
