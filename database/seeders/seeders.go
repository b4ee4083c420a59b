package seeders

import (
	"log"
	"tahfidz_go/database"
	"tahfidz_go/models"
	"tahfidz_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedSurahs()
	SeedMasterTags()
	SeedUsers()
	SeedKelas()
	SeedGurus()
	SeedSantris()

	log.Println("Database seeding completed successfully!")
}

type surahSeed struct {
	name  string
	ayahs int
	juz   int
}

// Standard Hafs/Uthmani ayah counts (6236 total). Juz is the juz in which the
// surah begins; fine-grained juz boundaries inside long surahs are not tracked.
var surahData = []surahSeed{
	{"Al-Fatihah", 7, 1}, {"Al-Baqarah", 286, 1}, {"Ali 'Imran", 200, 3},
	{"An-Nisa'", 176, 4}, {"Al-Ma'idah", 120, 6}, {"Al-An'am", 165, 7},
	{"Al-A'raf", 206, 8}, {"Al-Anfal", 75, 9}, {"At-Taubah", 129, 10},
	{"Yunus", 109, 11}, {"Hud", 123, 11}, {"Yusuf", 111, 12},
	{"Ar-Ra'd", 43, 13}, {"Ibrahim", 52, 13}, {"Al-Hijr", 99, 14},
	{"An-Nahl", 128, 14}, {"Al-Isra'", 111, 15}, {"Al-Kahf", 110, 15},
	{"Maryam", 98, 16}, {"Ta-Ha", 135, 16}, {"Al-Anbiya'", 112, 17},
	{"Al-Hajj", 78, 17}, {"Al-Mu'minun", 118, 18}, {"An-Nur", 64, 18},
	{"Al-Furqan", 77, 18}, {"Asy-Syu'ara'", 227, 19}, {"An-Naml", 93, 19},
	{"Al-Qasas", 88, 20}, {"Al-'Ankabut", 69, 20}, {"Ar-Rum", 60, 21},
	{"Luqman", 34, 21}, {"As-Sajdah", 30, 21}, {"Al-Ahzab", 73, 21},
	{"Saba'", 54, 22}, {"Fatir", 45, 22}, {"Ya-Sin", 83, 22},
	{"As-Saffat", 182, 23}, {"Sad", 88, 23}, {"Az-Zumar", 75, 23},
	{"Ghafir", 85, 24}, {"Fussilat", 54, 24}, {"Asy-Syura", 53, 25},
	{"Az-Zukhruf", 89, 25}, {"Ad-Dukhan", 59, 25}, {"Al-Jasiyah", 37, 25},
	{"Al-Ahqaf", 35, 26}, {"Muhammad", 38, 26}, {"Al-Fath", 29, 26},
	{"Al-Hujurat", 18, 26}, {"Qaf", 45, 26}, {"Az-Zariyat", 60, 26},
	{"At-Tur", 49, 27}, {"An-Najm", 62, 27}, {"Al-Qamar", 55, 27},
	{"Ar-Rahman", 78, 27}, {"Al-Waqi'ah", 96, 27}, {"Al-Hadid", 29, 27},
	{"Al-Mujadilah", 22, 28}, {"Al-Hasyr", 24, 28}, {"Al-Mumtahanah", 13, 28},
	{"As-Saff", 14, 28}, {"Al-Jumu'ah", 11, 28}, {"Al-Munafiqun", 11, 28},
	{"At-Taghabun", 18, 28}, {"At-Talaq", 12, 28}, {"At-Tahrim", 12, 28},
	{"Al-Mulk", 30, 29}, {"Al-Qalam", 52, 29}, {"Al-Haqqah", 52, 29},
	{"Al-Ma'arij", 44, 29}, {"Nuh", 28, 29}, {"Al-Jinn", 28, 29},
	{"Al-Muzzammil", 20, 29}, {"Al-Muddassir", 56, 29}, {"Al-Qiyamah", 40, 29},
	{"Al-Insan", 31, 29}, {"Al-Mursalat", 50, 29}, {"An-Naba'", 40, 30},
	{"An-Nazi'at", 46, 30}, {"'Abasa", 42, 30}, {"At-Takwir", 29, 30},
	{"Al-Infitar", 19, 30}, {"Al-Mutaffifin", 36, 30}, {"Al-Insyiqaq", 25, 30},
	{"Al-Buruj", 22, 30}, {"At-Tariq", 17, 30}, {"Al-A'la", 19, 30},
	{"Al-Ghasyiyah", 26, 30}, {"Al-Fajr", 30, 30}, {"Al-Balad", 20, 30},
	{"Asy-Syams", 15, 30}, {"Al-Lail", 21, 30}, {"Ad-Duha", 11, 30},
	{"Asy-Syarh", 8, 30}, {"At-Tin", 8, 30}, {"Al-'Alaq", 19, 30},
	{"Al-Qadr", 5, 30}, {"Al-Bayyinah", 8, 30}, {"Az-Zalzalah", 8, 30},
	{"Al-'Adiyat", 11, 30}, {"Al-Qari'ah", 11, 30}, {"At-Takasur", 8, 30},
	{"Al-'Asr", 3, 30}, {"Al-Humazah", 9, 30}, {"Al-Fil", 5, 30},
	{"Quraisy", 4, 30}, {"Al-Ma'un", 7, 30}, {"Al-Kausar", 3, 30},
	{"Al-Kafirun", 6, 30}, {"An-Nasr", 3, 30}, {"Al-Lahab", 5, 30},
	{"Al-Ikhlas", 4, 30}, {"Al-Falaq", 5, 30}, {"An-Nas", 6, 30},
}

// SeedSurahs seeds the surah reference table
func SeedSurahs() {
	var count int64
	database.DB.Model(&models.Surah{}).Count(&count)
	if count > 0 {
		log.Println("Surahs already seeded, skipping...")
		return
	}

	surahs := make([]models.Surah, 0, len(surahData))
	for i, s := range surahData {
		surahs = append(surahs, models.Surah{
			ID:         uint(i + 1),
			Name:       s.name,
			TotalAyahs: s.ayahs,
			Juz:        s.juz,
		})
	}

	if err := database.DB.CreateInBatches(surahs, 50).Error; err != nil {
		log.Printf("Failed to seed surahs: %v", err)
		return
	}
	log.Printf("Seeded %d surahs", len(surahs))
}

// SeedMasterTags seeds the default canned feedback tags
func SeedMasterTags() {
	var count int64
	database.DB.Model(&models.MasterTag{}).Count(&count)
	if count > 0 {
		log.Println("Master tags already seeded, skipping...")
		return
	}

	tags := []models.MasterTag{
		{Category: "Tajwid", Text: "Kurang Dengung", Active: true},
		{Category: "Tajwid", Text: "Mad Kurang Panjang", Active: true},
		{Category: "Tajwid", Text: "Qalqalah Tidak Jelas", Active: true},
		{Category: "Makhraj", Text: "Huruf Tertukar", Active: true},
		{Category: "Makhraj", Text: "Pelafalan 'Ain Kurang", Active: true},
		{Category: "Kelancaran", Text: "Sering Terbata", Active: true},
		{Category: "Kelancaran", Text: "Butuh Banyak Pancingan", Active: true},
		{Category: "Kelancaran", Text: "Sangat Lancar", Active: true},
		{Category: "Adab", Text: "Kurang Fokus", Active: true},
	}

	if err := database.DB.Create(&tags).Error; err != nil {
		log.Printf("Failed to seed master tags: %v", err)
		return
	}
	log.Printf("Seeded %d master tags", len(tags))
}

// SeedUsers seeds the default admin account
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Username: "admin",
		Password: hashed,
		Email:    "admin@pesantren.local",
		Role:     "admin",
		Status:   "active",
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Println("Seeded admin user (username: admin)")
}

// SeedKelas seeds demo halaqah groups (development only)
func SeedKelas() {
	var count int64
	database.DB.Model(&models.Kelas{}).Count(&count)
	if count > 0 {
		log.Println("Kelas already seeded, skipping...")
		return
	}

	kelas := []models.Kelas{
		{Name: "Halaqah Abu Bakar", Description: "Kelas tahfidz putra tingkat awal", Active: true},
		{Name: "Halaqah Umar", Description: "Kelas tahfidz putra tingkat lanjut", Active: true},
		{Name: "Halaqah Aisyah", Description: "Kelas tahfidz putri", Active: true},
	}

	if err := database.DB.Create(&kelas).Error; err != nil {
		log.Printf("Failed to seed kelas: %v", err)
		return
	}
	log.Printf("Seeded %d kelas", len(kelas))
}

// SeedGurus seeds a demo teacher account with profile
func SeedGurus() {
	var count int64
	database.DB.Model(&models.Guru{}).Count(&count)
	if count > 0 {
		log.Println("Gurus already seeded, skipping...")
		return
	}

	hashed, err := utils.HashPassword("guru123")
	if err != nil {
		log.Printf("Failed to hash guru password: %v", err)
		return
	}

	user := models.User{
		Username: "ust.ahmad",
		Password: hashed,
		Email:    "ahmad@pesantren.local",
		Role:     "guru",
		Status:   "active",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to seed guru user: %v", err)
		return
	}

	guru := models.Guru{
		UserID:   user.ID,
		FullName: "Ahmad Fauzi",
		NIP:      "G-001",
		Gender:   "male",
		Active:   true,
	}
	if err := database.DB.Create(&guru).Error; err != nil {
		log.Printf("Failed to seed guru profile: %v", err)
		return
	}
	log.Println("Seeded demo guru (username: ust.ahmad)")
}

// SeedSantris seeds demo students assigned to the demo guru and first kelas
func SeedSantris() {
	var count int64
	database.DB.Model(&models.Santri{}).Count(&count)
	if count > 0 {
		log.Println("Santris already seeded, skipping...")
		return
	}

	var guru models.Guru
	if err := database.DB.First(&guru).Error; err != nil {
		log.Println("No guru found, skipping santri seed")
		return
	}
	var kelas models.Kelas
	if err := database.DB.First(&kelas).Error; err != nil {
		log.Println("No kelas found, skipping santri seed")
		return
	}

	demo := []struct {
		username string
		fullName string
		nis      string
	}{
		{"santri.fikri", "Fikri Ramadhan", "S-2024-001"},
		{"santri.zaid", "Zaid Alfarizi", "S-2024-002"},
	}

	for _, d := range demo {
		hashed, err := utils.HashPassword("santri123")
		if err != nil {
			log.Printf("Failed to hash santri password: %v", err)
			continue
		}
		user := models.User{
			Username: d.username,
			Password: hashed,
			Email:    d.username + "@pesantren.local",
			Role:     "santri",
			Status:   "active",
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Failed to seed santri user %s: %v", d.username, err)
			continue
		}
		santri := models.Santri{
			UserID:   user.ID,
			FullName: d.fullName,
			NIS:      d.nis,
			Gender:   "male",
			KelasID:  &kelas.ID,
			GuruID:   &guru.ID,
			Active:   true,
		}
		if err := database.DB.Create(&santri).Error; err != nil {
			log.Printf("Failed to seed santri profile %s: %v", d.fullName, err)
		}
	}
	log.Printf("Seeded %d demo santris", len(demo))
}
