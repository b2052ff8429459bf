package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"sisnompeg_admin/internal/app"
	"sisnompeg_admin/internal/domain/employee"
)

// commandTimeout bounds the work done for one admin command.
const commandTimeout = 2 * time.Minute

// KGBOperations is what the admin commands need from the KGB service.
type KGBOperations interface {
	DueNotifications(ctx context.Context) (*app.DueNotifications, error)
	ProcessDueAdvancements(ctx context.Context) (*app.AdvancementResult, error)
	CheckEligibility(ctx context.Context, nip string) (*app.Eligibility, error)
}

type EmployeeFinder interface {
	FindOne(ctx context.Context, nip string) (*employee.Employee, error)
}

type adminHandlers struct {
	ctx       context.Context
	kgb       KGBOperations
	employees EmployeeFinder
	adminID   int64
	log       *logrus.Entry
}

// RegisterAdminHandlers registers the administrator commands. Commands from
// any other sender are refused.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, kgb KGBOperations, employees EmployeeFinder, adminTelegramID int64, baseLogger *logrus.Entry) {
	h := &adminHandlers{ctx: ctx, kgb: kgb, employees: employees, adminID: adminTelegramID, log: baseLogger}
	b.Handle("/kgb", h.adminOnly("/kgb", h.dueList))
	b.Handle("/proses_kgb", h.adminOnly("/proses_kgb", h.runPass))
	b.Handle("/pegawai", h.adminOnly("/pegawai", h.employeeSummary))
}

type commandFunc func(ctx context.Context, c telebot.Context, log *logrus.Entry) error

func (h *adminHandlers) adminOnly(name string, next commandFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := h.log.WithFields(logrus.Fields{
			"handler":   name,
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != h.adminID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgUnauthorized)
		}
		ctx, cancel := context.WithTimeout(h.ctx, commandTimeout)
		defer cancel()
		return next(ctx, c, handlerLogger)
	}
}

func (h *adminHandlers) dueList(ctx context.Context, c telebot.Context, log *logrus.Entry) error {
	due, err := h.kgb.DueNotifications(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load due notifications")
		return c.Send(fmt.Sprintf("Gagal mengambil data KGB: %s", err.Error()))
	}
	return c.Send(formatDueList(due))
}

func (h *adminHandlers) runPass(ctx context.Context, c telebot.Context, log *logrus.Entry) error {
	res, err := h.kgb.ProcessDueAdvancements(ctx)
	if err != nil {
		log.WithError(err).Error("KGB pass failed")
		return c.Send(fmt.Sprintf("Proses KGB gagal: %s", err.Error()))
	}
	log.WithFields(logrus.Fields{"advanced": res.Advanced, "failed": len(res.Failures)}).Info("KGB pass finished")
	return c.Send(formatPassResult(res))
}

func (h *adminHandlers) employeeSummary(ctx context.Context, c telebot.Context, log *logrus.Entry) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Format salah. Gunakan: /pegawai <NIP>")
	}
	nip := strings.TrimSpace(args[0])
	log = log.WithField("nip", nip)

	e, err := h.employees.FindOne(ctx, nip)
	if err != nil {
		if app.IsNotFound(err) {
			return c.Send(fmt.Sprintf("Pegawai dengan NIP %s tidak ditemukan.", nip))
		}
		log.WithError(err).Error("Failed to load employee")
		return c.Send(fmt.Sprintf("Gagal mengambil data pegawai: %s", err.Error()))
	}

	var el *app.Eligibility
	if !e.TMT.IsZero() {
		el, err = h.kgb.CheckEligibility(ctx, nip)
		if err != nil {
			log.WithError(err).Warn("Failed to check rank eligibility")
		}
	}
	return c.Send(formatEmployee(e, el))
}

func formatDueList(due *app.DueNotifications) string {
	if due.TotalNotif == 0 {
		return "Tidak ada KGB yang perlu diperhatikan."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "KGB perlu perhatian (%d):\n", due.TotalNotif)
	for _, item := range due.Data {
		fmt.Fprintf(&b, "- %s (%s): %s, %s", item.Nama, item.NIP, item.KGBBerikutnya, item.Status)
		if item.SisaHari != 0 {
			fmt.Fprintf(&b, " (%d hari)", item.SisaHari)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatPassResult(res *app.AdvancementResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Proses KGB selesai. Diproses: %d.", res.Advanced)
	if len(res.Failures) > 0 {
		fmt.Fprintf(&b, "\nGagal (%d):", len(res.Failures))
		for _, f := range res.Failures {
			fmt.Fprintf(&b, "\n- %s [%s]: %s", f.NIP, f.Stage, f.Message)
		}
	}
	return b.String()
}

func formatEmployee(e *employee.Employee, el *app.Eligibility) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nNIP: %s\n", e.Nama, e.NIP)
	fmt.Fprintf(&b, "Pangkat/Golongan: %s\n", dashIfEmpty(e.PangkatGolongan))
	fmt.Fprintf(&b, "TMT: %s\n", dashIfEmpty(e.TMT.String()))
	fmt.Fprintf(&b, "KGB terakhir: %s\n", dashIfEmpty(e.KGBTerakhir.String()))
	fmt.Fprintf(&b, "KGB berikutnya: %s", dashIfEmpty(e.KGBBerikutnya.String()))
	if el != nil {
		fmt.Fprintf(&b, "\nKenaikan pangkat ke %s: %s (%s)", el.PotensiPangkatBaru, el.Status, el.TanggalLayak)
	}
	return b.String()
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
