package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/complaint-bot/internal/domain"
)

// User-facing texts. The bot serves an Indonesian audience, matching the
// deployment it was built for.
const (
	replyIdleMenu = "Selamat datang di layanan pengaduan.\n\n" +
		"/lapor — buat laporan baru\n" +
		"/status <ID tiket> — cek status laporan Anda\n" +
		"/batal — batalkan proses yang sedang berjalan"

	replyAskContext   = "Layanan mana yang ingin Anda laporkan? (contoh: website, aplikasi, pembayaran)"
	replyAskName      = "Siapa nama lengkap Anda?"
	replyAskHandle    = "Masukkan username atau ID akun Anda pada layanan tersebut."
	replyAskComplaint = "Jelaskan keluhan Anda."
	replyAskEvidence  = "Kirim foto bukti, atau ketik \"lanjut\" untuk melewati langkah ini."

	replyInvalidNotice  = "Maaf, balasan Anda tidak sesuai.\n\n"
	replyCancelled      = "Laporan dibatalkan. Ketik /lapor untuk memulai lagi."
	replyPersistFailed  = "Maaf, terjadi gangguan saat menyimpan laporan Anda. Silakan coba lagi nanti."
	replyGenericFailure = "Maaf, terjadi kesalahan. Silakan coba lagi."
	replyAskTicketID    = "Masukkan ID tiket Anda (contoh: OTH-20260901-001)."
	replyTicketNotFound = "Tiket tidak ditemukan. Periksa kembali ID tiket Anda."
)

var statusLabels = map[domain.TicketStatus]string{
	domain.TicketStatusProcessing:           "Sedang diproses",
	domain.TicketStatusAwaitingConfirmation: "Menunggu konfirmasi Anda",
	domain.TicketStatusResolved:             "Selesai",
	domain.TicketStatusRejected:             "Ditolak",
}

func statusLabel(status domain.TicketStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

func confirmationMessage(ticketID string) string {
	return fmt.Sprintf(
		"Laporan Anda telah diterima dengan ID tiket %s.\n"+
			"Simpan ID ini untuk mengecek status laporan melalui /status %s.",
		ticketID, ticketID)
}

func statusMessage(rec *domain.TicketRecord) string {
	evidence := "tidak ada"
	if rec.HasEvidence() {
		evidence = rec.EvidenceRef
	}
	return fmt.Sprintf(
		"Tiket %s\nStatus: %s\nLayanan: %s\nKeluhan: %s\nBukti: %s\nDibuat: %s",
		rec.TicketID,
		statusLabel(rec.Status),
		rec.ContextCode,
		rec.ComplaintText,
		evidence,
		rec.CreatedAt.Format("02-01-2006 15:04"),
	)
}

// adminAlert formats the fan-out message sent to every admin recipient.
func adminAlert(rec *domain.TicketRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Laporan baru: %s\n\n", rec.TicketID)
	fmt.Fprintf(&b, "Layanan: %s\n", rec.ContextCode)
	fmt.Fprintf(&b, "Nama: %s\n", rec.ReporterName)
	fmt.Fprintf(&b, "Akun: %s\n", rec.ReporterHandle)
	if rec.MessagingHandle != "" {
		fmt.Fprintf(&b, "Kontak: %s\n", rec.MessagingHandle)
	}
	fmt.Fprintf(&b, "Keluhan: %s\n", rec.ComplaintText)
	if rec.HasEvidence() {
		fmt.Fprintf(&b, "Bukti: %s\n", rec.EvidenceRef)
	} else {
		b.WriteString("Bukti: tidak ada\n")
	}
	fmt.Fprintf(&b, "Status: %s", statusLabel(rec.Status))
	return b.String()
}
