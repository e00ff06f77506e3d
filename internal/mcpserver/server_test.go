package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/sipekan/internal/gizi"
	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/service"
	"github.com/starford/sipekan/internal/testutil"
)

func testServer(t *testing.T) (*Server, *service.Service) {
	t.Helper()
	db := testutil.TestDB(t)
	_, files := testutil.TestContent(t)
	svc := service.New(db, files)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	h, ok := srv.tools[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestToolsRegistered(t *testing.T) {
	srv, _ := testServer(t)
	for _, name := range []string{
		"lookup_child", "classify_nutrition", "generate_child_code", "parse_child_code",
		"upcoming_activities", "dashboard_stats", "search_articles",
	} {
		if _, ok := srv.tools[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestClassifyNutrition(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "classify_nutrition", map[string]interface{}{
		"jenis_kelamin": "L", "usia_bulan": 24, "berat_badan": 12.0, "tinggi_badan": 85.0, "lingkar_lengan": 11.0,
	})
	if r.IsError {
		t.Fatalf("classify error: %s", resultText(r))
	}
	var got service.ClassifyResult
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != gizi.AtRiskStunting || got.ArmCircumferenceOK {
		t.Errorf("classify = %+v", got)
	}

	r = callTool(t, srv, "classify_nutrition", map[string]interface{}{
		"jenis_kelamin": "P", "tanggal_lahir": "2023-06-15", "tanggal": "2025-06-15",
		"berat_badan": 11.0, "tinggi_badan": 84.0,
	})
	_ = json.Unmarshal([]byte(resultText(r)), &got)
	if got.UsiaBulan == nil || *got.UsiaBulan != 24 || got.Status != gizi.Normal {
		t.Errorf("derived age result = %+v", got)
	}

	r = callTool(t, srv, "classify_nutrition", map[string]interface{}{
		"jenis_kelamin": "L", "tanggal_lahir": "15/06/2023", "berat_badan": 11.0, "tinggi_badan": 84.0,
	})
	if !r.IsError {
		t.Error("expected error for bad birth date")
	}
}

func TestChildCodes(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "generate_child_code", map[string]interface{}{
		"nama": "Ari Ramadhan", "tanggal_lahir": "2025-01-13", "nomor": 12,
	})
	if text := resultText(r); text != "20250113-AR-012" {
		t.Errorf("generate = %q", text)
	}
	r = callTool(t, srv, "generate_child_code", map[string]interface{}{"nama": "Siti"})
	if text := resultText(r); text != "00000000-SI-001" {
		t.Errorf("generate without date = %q", text)
	}

	r = callTool(t, srv, "parse_child_code", map[string]interface{}{"kode": "20250113-AR-012"})
	var parsed service.ParsedCode
	if err := json.Unmarshal([]byte(resultText(r)), &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed.Nomor != 12 || parsed.TanggalLahir != "2025-01-13" {
		t.Errorf("parsed = %+v", parsed)
	}

	r = callTool(t, srv, "parse_child_code", map[string]interface{}{"kode": "bad"})
	if !r.IsError {
		t.Error("expected error for malformed code")
	}
}

func TestLookupChild(t *testing.T) {
	srv, svc := testServer(t)
	lahir, _ := models.ParseDate("2023-06-15")
	b, err := svc.CreateBalita(context.Background(), service.BalitaInput{
		Nama: "Ari Ramadhan", JenisKelamin: "L", TanggalLahir: lahir, NamaIbu: "Siti Aminah",
	})
	if err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "lookup_child", map[string]interface{}{"query": b.KodeBalita})
	if r.IsError || !strings.Contains(resultText(r), b.ID) {
		t.Errorf("lookup by code = %s", resultText(r))
	}
	r = callTool(t, srv, "lookup_child", map[string]interface{}{"query": "Budi"})
	if !r.IsError {
		t.Error("expected error for unknown child")
	}

	r = callTool(t, srv, "dashboard_stats", map[string]interface{}{})
	var d service.DashboardStats
	if err := json.Unmarshal([]byte(resultText(r)), &d); err != nil {
		t.Fatal(err)
	}
	if d.TotalBalita != 1 || d.Normal != 1 {
		t.Errorf("dashboard = %+v", d)
	}
}

func TestUpcomingAndArticles(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	_, err := svc.CreateKegiatan(ctx, service.KegiatanInput{
		Judul: "Penimbangan", Deskripsi: "Bulanan", TanggalWaktu: time.Now().Add(24 * time.Hour),
		LokasiPosyandu: "Melati", Kategori: "posyandu", PenanggungJawab: "Kader",
		Lokasi: "Balai", TargetPeserta: "Balita", Status: models.KegiatanTerjadwal,
	})
	if err != nil {
		t.Fatal(err)
	}
	r := callTool(t, srv, "upcoming_activities", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Penimbangan") {
		t.Errorf("upcoming = %s", resultText(r))
	}

	if _, err := svc.CreateBerita(ctx, service.BeritaInput{Judul: "Cegah Stunting", Isi: "Makanan bergizi", Status: "published"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBerita(ctx, service.BeritaInput{Judul: "Draf Stunting"}); err != nil {
		t.Fatal(err)
	}
	r = callTool(t, srv, "search_articles", map[string]interface{}{"query": "stunting"})
	var hits []models.Berita
	if err := json.Unmarshal([]byte(resultText(r)), &hits); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Slug != "cegah-stunting" {
		t.Errorf("search hits = %+v", hits)
	}
}

func TestCriteriaResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readCriteriaResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != criteriaURI {
		t.Fatalf("resource = %+v", contents)
	}
	if !strings.Contains(tc.Text, "Resiko Stunting") || !strings.Contains(tc.Text, "12.5 cm") {
		t.Errorf("criteria text missing thresholds:\n%s", tc.Text)
	}
}
