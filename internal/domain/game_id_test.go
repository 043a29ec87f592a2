package domain

import "testing"

func TestParseGameID(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"4596", true},
		{" 4596 ", true},
		{"1", true},
		{"", false},
		{"abc", false},
		{"45a6", false},
		{"-1", false},
		{"12345678", false}, // 超过 7 位
	}
	for _, c := range cases {
		id, ok := ParseGameID(c.in)
		if ok != c.ok {
			t.Fatalf("ParseGameID(%q)：期望 ok=%v，实际 ok=%v", c.in, c.ok, ok)
		}
		if ok && id == "" {
			t.Fatalf("ParseGameID(%q)：ok 但 id 为空", c.in)
		}
	}
}

func TestGameIDFromURL(t *testing.T) {
	cases := []struct {
		href string
		want GameID
		ok   bool
	}{
		{"showgame.php?game_id=4596", "4596", true},
		{"https://j-archive.com/showgame.php?game_id=4596", "4596", true},
		{"/showgame.php?game_id=7", "7", true},
		{"showseason.php?season=21", "", false},
		{"showgame.php", "", false},
		{"showgame.php?game_id=", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		id, ok := GameIDFromURL(c.href)
		if ok != c.ok || id != c.want {
			t.Fatalf("GameIDFromURL(%q)：期望 (%q,%v)，实际 (%q,%v)", c.href, c.want, c.ok, id, ok)
		}
	}
}
