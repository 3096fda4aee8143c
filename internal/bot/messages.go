package bot

import (
	"fmt"
	"strings"
	"time"

	"telegram_assistant/internal/domain"
	"telegram_assistant/internal/format"
	"telegram_assistant/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgInvalidAmount = "❌ Jumlah tidak valid. Contoh: `50000`, `50k`, `1.5jt`"
	msgExpenseUsage  = "❌ Format: /keluar [jumlah] [keterangan]\nContoh: `/keluar 50000 makan siang`"
	msgIncomeUsage   = "❌ Format: /masuk [jumlah] [keterangan]\nContoh: `/masuk 1000000 gaji`"

	msgNoTransactions       = "belum ada transaksi bulan ini\n\ncatat pake:\n/keluar 50000 makan siang\n/masuk 1000000 gaji"
	msgNoTransactionsDetail = "belum ada transaksi bulan ini"

	msgReminderUsage = "format: /reminder [waktu] [pesan]\n\n" +
		"contoh:\n" +
		"/reminder 10m Minum air\n" +
		"/reminder 2h Meeting\n" +
		"/reminder 14:30 Sholat dzuhur\n" +
		"/reminder besok 08:00 Bangun"
	msgReminderNoMessage = "❌ Kasih pesan remindernya dong!\nContoh: `/reminder 10m Minum air`"
	msgReminderBadTime   = "format waktu ga valid\n\n" +
		"yang didukung:\n" +
		"10m - 10 menit\n" +
		"2h - 2 jam\n" +
		"1d - 1 hari\n" +
		"14:30 - jam tertentu\n" +
		"besok 08:00"
	msgNoReminders      = "belum ada reminder aktif\n\nbuat baru: /reminder 30m Istirahat"
	msgDeleteUsage      = "❌ Format: /hapus_reminder [ID]\nCek ID di /list_reminder"
	msgReminderNotFound = "reminder ga ketemu atau bukan punya lo"

	msgRateLimited = "santai dulu, lo kebanyakan chat. coba lagi bentar ya"
	msgInternal    = "waduh lagi ada gangguan nih, coba lagi ntar ya"
)

const helpText = `daftar perintah:

/keluar 50000 makan siang
/masuk 1jt gaji
/laporan
/laporan_lengkap
/reminder 30m istirahat
/list_reminder
/hapus_reminder 1

atau ketik apa aja buat ngobrol`

// menu is registered with setMyCommands so it shows up when typing "/"
var menu = []tgbotapi.BotCommand{
	{Command: "start", Description: "👋 Mulai & lihat panduan"},
	{Command: "help", Description: "📚 Daftar semua perintah"},
	{Command: "keluar", Description: "💸 Catat pengeluaran"},
	{Command: "masuk", Description: "💰 Catat pemasukan"},
	{Command: "laporan", Description: "📊 Laporan keuangan bulan ini"},
	{Command: "laporan_lengkap", Description: "📊 Laporan detail per kategori"},
	{Command: "reminder", Description: "⏰ Set pengingat"},
	{Command: "list_reminder", Description: "🔔 Lihat semua reminder"},
	{Command: "hapus_reminder", Description: "🗑 Hapus reminder"},
}

func startText(firstName string) string {
	if firstName == "" {
		firstName = "kamu"
	}
	return fmt.Sprintf(`yo %s! gue AlfanBot, asisten lo di Telegram.

ini yang bisa gue bantu:

-- KEUANGAN --
/keluar [jumlah] [keterangan] - catat pengeluaran
/masuk [jumlah] [keterangan] - catat pemasukan
/laporan - ringkasan bulan ini
/laporan_lengkap - detail per kategori

-- REMINDER --
/reminder [waktu] [pesan] - set pengingat
/list_reminder - lihat semua
/hapus_reminder [id] - hapus reminder

-- AI CHAT --
kirim pesan apa aja, gue jawab pake AI

format waktu reminder: 10m, 2h, 1d, 14:30, besok 08:00
format jumlah: 50000, 50k, 1.5jt`, firstName)
}

func receiptText(tx *domain.Transaction, loc *time.Location) string {
	label := "Pemasukan"
	if tx.IsExpense() {
		label = "Pengeluaran"
	}
	desc := tx.Description
	if desc == "" {
		desc = "-"
	}
	return fmt.Sprintf("%s tercatat\n\nJumlah: %s\nKategori: %s\nKeterangan: %s\nWaktu: %s %s",
		label,
		format.Rupiah(tx.Amount),
		tx.Category,
		desc,
		format.DateTime(tx.CreatedAt, loc),
		format.Zone(tx.CreatedAt, loc),
	)
}

func summaryText(sum *service.MonthlySummary, loc *time.Location) string {
	return fmt.Sprintf("laporan keuangan - %s\n\nPemasukan: %s\nPengeluaran: %s\nSaldo: %s\n\nTotal transaksi: %d",
		format.MonthYear(sum.Month, loc),
		format.Rupiah(sum.TotalIncome),
		format.Rupiah(sum.TotalExpense),
		format.Rupiah(sum.Balance),
		sum.Count,
	)
}

func detailedText(rep *service.DetailedReport, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "laporan detail - %s\n\n", format.MonthYear(rep.Month, loc))

	writeSection := func(title string, total int64, cats []service.CategoryTotal) {
		if len(cats) == 0 {
			return
		}
		fmt.Fprintf(&sb, "%s (%s)\n", title, format.Rupiah(total))
		for _, c := range cats {
			fmt.Fprintf(&sb, "  %s: %s\n", c.Category, format.Rupiah(c.Amount))
		}
		sb.WriteString("\n")
	}
	writeSection("PEMASUKAN", rep.TotalIncome, rep.Income)
	writeSection("PENGELUARAN", rep.TotalExpense, rep.Expense)

	fmt.Fprintf(&sb, "Saldo: %s", format.Rupiah(rep.Balance))

	fmt.Fprintf(&sb, "\n\n%d transaksi terakhir:\n", len(rep.Recent))
	for _, t := range rep.Recent {
		sign := "+"
		if t.IsExpense() {
			sign = "-"
		}
		label := t.Description
		if label == "" {
			label = t.Category
		}
		fmt.Fprintf(&sb, "%s %s %s (%s)\n", sign, format.ShortDate(t.CreatedAt, loc), format.Rupiah(t.Amount), label)
	}
	return sb.String()
}

func reminderSavedText(rem *domain.Reminder, loc *time.Location) string {
	return fmt.Sprintf("Reminder disimpan\n\nPesan: %s\nWaktu: %s %s",
		rem.Message,
		format.DateTime(rem.RemindAt, loc),
		format.Zone(rem.RemindAt, loc),
	)
}

func reminderListText(list []*domain.Reminder, loc *time.Location) string {
	if len(list) == 0 {
		return msgNoReminders
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "reminder aktif (%d)\n\n", len(list))
	for i, r := range list {
		fmt.Fprintf(&sb, "%d. %s\n   %s %s (ID: %d)\n\n",
			i+1, r.Message, format.ShortDateTime(r.RemindAt, loc), format.Zone(r.RemindAt, loc), r.ID)
	}
	sb.WriteString("hapus reminder: /hapus_reminder [ID]")
	return sb.String()
}

func reminderDeletedText(rem *domain.Reminder) string {
	return fmt.Sprintf("reminder \"%s\" berhasil dihapus", rem.Message)
}

// deliveryText is sent with legacy Markdown; user text is escaped
func deliveryText(rem *domain.Reminder, loc *time.Location) string {
	return fmt.Sprintf("🔔 *REMINDER!*\n\n📝 %s\n\n_Reminder ini diset pada %s %s_",
		tgbotapi.EscapeText(tgbotapi.ModeMarkdown, rem.Message),
		format.DateTime(rem.CreatedAt, loc),
		format.Zone(rem.CreatedAt, loc),
	)
}
