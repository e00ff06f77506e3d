package parser

import (
	"strings"
	"testing"
)

func TestParseArticle_FrontMatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Jadwal Imunisasi\nkategori: imunisasi\nstatus: Published\ntanggal: 2025-02-01\nringkasan: Jadwal bulan ini\n---\n# Heading\nIsi berita.\n")
	a, err := ParseArticle(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.HasFrontMatter {
		t.Fatal("expected front matter")
	}
	if a.Title != "Jadwal Imunisasi" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Status != "published" {
		t.Errorf("status = %q, want lower-cased published", a.Status)
	}
	if a.Tanggal != "2025-02-01" {
		t.Errorf("tanggal = %q", a.Tanggal)
	}
	if a.Kategori != "imunisasi" || a.Ringkasan != "Jadwal bulan ini" {
		t.Errorf("kategori/ringkasan = %q/%q", a.Kategori, a.Ringkasan)
	}
	if a.Body != "# Heading\nIsi berita.\n" {
		t.Errorf("body = %q", a.Body)
	}
}

func TestParseArticle_NoFrontMatter(t *testing.T) {
	a, err := ParseArticle([]byte("# Posyandu Mawar\n\nKegiatan rutin\nsetiap bulan.\n\nParagraf dua.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.HasFrontMatter {
		t.Error("expected no front matter")
	}
	if a.Title != "Posyandu Mawar" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Ringkasan != "Kegiatan rutin setiap bulan." {
		t.Errorf("ringkasan = %q", a.Ringkasan)
	}
}

func TestParseArticle_InvalidYAMLFallback(t *testing.T) {
	input := "---\n: invalid: yaml: {{{\n---\nBody\n"
	a, err := ParseArticle([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.HasFrontMatter {
		t.Error("expected front matter to be dropped on invalid YAML")
	}
	if a.Body != input {
		t.Errorf("body = %q, want whole input", a.Body)
	}
}

func TestParseArticle_UnclosedFrontMatter(t *testing.T) {
	a, _ := ParseArticle([]byte("---\ntitle: x\nno closing"))
	if a.HasFrontMatter {
		t.Error("unclosed header must not parse")
	}
}

func TestParseArticle_FrontMatterTitleWins(t *testing.T) {
	a, _ := ParseArticle([]byte("---\ntitle: FM\n---\n# H1\n"))
	if a.Title != "FM" {
		t.Errorf("title = %q, want FM", a.Title)
	}
}

func TestParseArticle_LongSummaryTruncated(t *testing.T) {
	a, _ := ParseArticle([]byte(strings.Repeat("kata ", 100)))
	if n := len([]rune(a.Ringkasan)); n > summaryRunes+1 {
		t.Errorf("summary runes = %d", n)
	}
	if !strings.HasSuffix(a.Ringkasan, "…") {
		t.Errorf("expected ellipsis, got %q", a.Ringkasan)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	fm := FrontMatter{Title: "Gizi Seimbang", Kategori: "edukasi", Status: "draft", Tanggal: "2025-03-04", Ringkasan: "Ringkas"}
	data, err := Render(fm, "Isi artikel")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\n") || !strings.HasSuffix(string(data), "Isi artikel\n") {
		t.Errorf("rendered = %q", data)
	}
	a, err := ParseArticle(data)
	if err != nil {
		t.Fatalf("ParseArticle: %v", err)
	}
	if a.FrontMatter != fm {
		t.Errorf("front matter = %+v, want %+v", a.FrontMatter, fm)
	}
	if a.Body != "Isi artikel\n" {
		t.Errorf("body = %q", a.Body)
	}
}
