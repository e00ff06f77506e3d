package service

import (
	"context"
	"math"
	"time"

	"github.com/starford/sipekan/internal/gizi"
	"github.com/starford/sipekan/internal/models"
)

// Month labels used by the dashboard charts.
var (
	MonthNames = []string{"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember"}
	MonthShort = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)

// DashboardStats is the headline panel of the admin dashboard.
type DashboardStats struct {
	TotalBalita          int     `json:"total_balita"`
	Normal               int     `json:"normal"`
	ResikoStunting       int     `json:"resiko_stunting"`
	NormalPersen         float64 `json:"normal_persen"`
	ResikoStuntingPersen float64 `json:"resiko_stunting_persen"`
	TotalPemeriksaan     int     `json:"total_pemeriksaan"`
	TotalKegiatan        int     `json:"total_kegiatan"`
	BeritaPublished      int     `json:"berita_published"`
}

// MonthlyStats counts measurements and activities per month of a year.
type MonthlyStats struct {
	Year        int      `json:"year"`
	Months      []string `json:"months"`
	Pemeriksaan []int    `json:"pemeriksaan"`
	Kegiatan    []int    `json:"kegiatan"`
}

// RegistrationTrend counts new children per month. Cumulative stops at the
// current month when year is the current year.
type RegistrationTrend struct {
	Year       int      `json:"year"`
	Months     []string `json:"months"`
	Monthly    []int    `json:"monthly"`
	Cumulative []int    `json:"cumulative"`
}

// AverageGrowth is the mean weight and height measured per month.
type AverageGrowth struct {
	Year          int       `json:"year"`
	Months        []string  `json:"months"`
	AverageBerat  []float64 `json:"average_berat"`
	AverageTinggi []float64 `json:"average_tinggi"`
}

// AgeGroup is one bar of the at-risk distribution.
type AgeGroup struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RecentActivity lists what happened in the last N days.
type RecentActivity struct {
	Days        int                  `json:"days"`
	Pemeriksaan []models.Pemeriksaan `json:"pemeriksaan"`
	Kegiatan    []models.Kegiatan    `json:"kegiatan"`
	Berita      []models.Berita      `json:"berita"`
	Summary     RecentSummary        `json:"summary"`
}

type RecentSummary struct {
	TotalPemeriksaan int `json:"total_pemeriksaan"`
	TotalKegiatan    int `json:"total_kegiatan"`
	TotalBerita      int `json:"total_berita"`
}

// TrendPoint is one measurement on a child's growth chart.
type TrendPoint struct {
	Tanggal       models.Date `json:"tanggal"`
	UsiaBulan     int         `json:"usia_bulan"`
	BeratBadan    *float64    `json:"berat_badan"`
	TinggiBadan   *float64    `json:"tinggi_badan"`
	LingkarKepala *float64    `json:"lingkar_kepala"`
	LingkarLengan *float64    `json:"lingkar_lengan"`
	StatusGizi    gizi.Status `json:"status_gizi"`
}

var ageGroups = []struct {
	label string
	max   int
}{
	{"0-6 bulan", 6},
	{"7-12 bulan", 12},
	{"13-24 bulan", 24},
	{"25-36 bulan", 36},
	{"37-60 bulan", 60},
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(n) / float64(total) * 100)
}

func yearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)
}

// Dashboard computes the headline counts.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.db.CountBalitaByStatus(ctx)
	if err != nil {
		return nil, err
	}
	d := &DashboardStats{}
	for label, n := range byStatus {
		d.TotalBalita += n
		st, _ := gizi.ParseStatus(label)
		if st == gizi.AtRiskStunting {
			d.ResikoStunting += n
		} else {
			d.Normal += n
		}
	}
	d.NormalPersen = percent(d.Normal, d.TotalBalita)
	d.ResikoStuntingPersen = percent(d.ResikoStunting, d.TotalBalita)

	if d.TotalPemeriksaan, err = s.db.CountPemeriksaan(ctx); err != nil {
		return nil, err
	}
	if d.TotalKegiatan, err = s.db.CountKegiatan(ctx); err != nil {
		return nil, err
	}
	if d.BeritaPublished, err = s.db.CountBerita(ctx, models.BeritaPublished); err != nil {
		return nil, err
	}
	return d, nil
}

// Monthly buckets a year's measurements and activities by month.
func (s *Service) Monthly(ctx context.Context, year int) (*MonthlyStats, error) {
	from, to := yearBounds(year)
	ms, err := s.db.ListPemeriksaanBetween(ctx, models.NewDate(from), models.NewDate(to.AddDate(0, 0, -1)))
	if err != nil {
		return nil, err
	}
	ks, err := s.db.ListKegiatanBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &MonthlyStats{Year: year, Months: MonthNames, Pemeriksaan: make([]int, 12), Kegiatan: make([]int, 12)}
	for _, p := range ms {
		out.Pemeriksaan[p.Tanggal.Month()-1]++
	}
	for _, k := range ks {
		out.Kegiatan[k.TanggalWaktu.Month()-1]++
	}
	return out, nil
}

// Registrations counts children registered per month of year.
func (s *Service) Registrations(ctx context.Context, year int) (*RegistrationTrend, error) {
	all, err := s.db.AllBalita(ctx)
	if err != nil {
		return nil, err
	}
	out := &RegistrationTrend{Year: year, Months: MonthShort, Monthly: make([]int, 12), Cumulative: make([]int, 12)}
	for _, b := range all {
		created := b.CreatedAt.UTC()
		if created.Year() == year {
			out.Monthly[created.Month()-1]++
		}
	}
	last := 11
	if now := s.now().UTC(); year == now.Year() {
		last = int(now.Month()) - 1
	}
	total := 0
	for i := 0; i <= last; i++ {
		total += out.Monthly[i]
		out.Cumulative[i] = total
	}
	return out, nil
}

// Growth averages measured weight and height per month. Missing values are
// left out of the mean instead of counting as zero.
func (s *Service) Growth(ctx context.Context, year int) (*AverageGrowth, error) {
	from, to := yearBounds(year)
	ms, err := s.db.ListPemeriksaanBetween(ctx, models.NewDate(from), models.NewDate(to.AddDate(0, 0, -1)))
	if err != nil {
		return nil, err
	}
	var sumW, sumH [12]float64
	var nW, nH [12]int
	for _, p := range ms {
		m := p.Tanggal.Month() - 1
		if p.BeratBadan != nil {
			sumW[m] += *p.BeratBadan
			nW[m]++
		}
		if p.TinggiBadan != nil {
			sumH[m] += *p.TinggiBadan
			nH[m]++
		}
	}
	out := &AverageGrowth{Year: year, Months: MonthShort, AverageBerat: make([]float64, 12), AverageTinggi: make([]float64, 12)}
	for i := 0; i < 12; i++ {
		if nW[i] > 0 {
			out.AverageBerat[i] = round2(sumW[i] / float64(nW[i]))
		}
		if nH[i] > 0 {
			out.AverageTinggi[i] = round2(sumH[i] / float64(nH[i]))
		}
	}
	return out, nil
}

// Distribution groups at-risk children by age. Children older than 60 months
// or without a birth date are not counted.
func (s *Service) Distribution(ctx context.Context) ([]AgeGroup, error) {
	all, err := s.db.AllBalita(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AgeGroup, len(ageGroups))
	for i, g := range ageGroups {
		out[i].Label = g.label
	}
	today := s.today()
	for _, b := range all {
		if b.StatusGizi != gizi.AtRiskStunting || b.TanggalLahir.IsZero() {
			continue
		}
		age := gizi.AgeInMonths(b.TanggalLahir.Time, today)
		for i, g := range ageGroups {
			if age <= g.max {
				out[i].Count++
				break
			}
		}
	}
	return out, nil
}

// Recent summarises the last days days; a non-positive value means 7.
func (s *Service) Recent(ctx context.Context, days int) (*RecentActivity, error) {
	if days <= 0 {
		days = 7
	}
	today := s.today()
	since := today.AddDate(0, 0, -days)

	ms, err := s.db.ListPemeriksaanBetween(ctx, models.NewDate(since), models.NewDate(today.AddDate(100, 0, 0)))
	if err != nil {
		return nil, err
	}
	ks, err := s.db.KegiatanCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	bs, err := s.db.BeritaCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return &RecentActivity{
		Days:        days,
		Pemeriksaan: ms,
		Kegiatan:    ks,
		Berita:      bs,
		Summary: RecentSummary{
			TotalPemeriksaan: len(ms),
			TotalKegiatan:    len(ks),
			TotalBerita:      len(bs),
		},
	}, nil
}

// Trend returns a child's measurements oldest first.
func (s *Service) Trend(ctx context.Context, balitaID string) ([]TrendPoint, error) {
	if _, err := s.db.GetBalita(ctx, balitaID); err != nil {
		return nil, err
	}
	ms, err := s.db.ListPemeriksaanByBalita(ctx, balitaID, true)
	if err != nil {
		return nil, err
	}
	out := make([]TrendPoint, len(ms))
	for i, p := range ms {
		out[i] = TrendPoint{
			Tanggal:       p.Tanggal,
			UsiaBulan:     p.UsiaBulan,
			BeratBadan:    p.BeratBadan,
			TinggiBadan:   p.TinggiBadan,
			LingkarKepala: p.LingkarKepala,
			LingkarLengan: p.LingkarLengan,
			StatusGizi:    p.StatusGizi,
		}
	}
	return out, nil
}
