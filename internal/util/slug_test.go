package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Selecionados", "selecionados"},
		{"Som do Coração", "som-do-coracao"},
		{"METATAGS", "metatags"},
		{"Refrão - Intensidade", "refrao-intensidade"},
		{"Projetos > Som do Coração", "projetos-som-do-coracao"},
		{"  --weird  input--  ", "weird-input"},
		{"já éôçãüñ", "ja-eocaun"},
		{"123 Go", "123-go"},
		{"", ""},
		{"---", ""},
		{"🎵 music 🎵", "music"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
