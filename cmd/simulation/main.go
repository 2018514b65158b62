package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-docchat-core/internal/bootstrap"
	"ai-docchat-core/internal/config"
	"ai-docchat-core/internal/constant"
	"ai-docchat-core/internal/controller"
	"ai-docchat-core/internal/dto"
	"ai-docchat-core/internal/entity"
	"ai-docchat-core/pkg/citation"
	"ai-docchat-core/pkg/events"
	"ai-docchat-core/pkg/inbox"
	pktNats "ai-docchat-core/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sampleDocuments = []entity.FileDescriptor{
	textFile("discharge_summary.txt", "Patient was prescribed Lisinopril 10mg.\nDiagnosis was Hypertension.\nTreatment plan includes follow-up in 2 weeks."),
	textFile("lab_results.txt", "Allergies: Penicillin.\nLab results show high cholesterol and a low Vitamin D count."),
}

var sampleQuestions = []string{
	"What medication was I prescribed?",
	"Do I have any allergies?",
	"What was the diagnosis?",
	"Can you summarize the treatment plan?",
	"What do my lab results say?",
	"How tall am I?",
}

func textFile(name, content string) entity.FileDescriptor {
	return entity.FileDescriptor{
		Name:      name,
		MimeType:  constant.MimeTypeText,
		SizeBytes: int64(len(content)),
		Content:   []byte(content),
	}
}

func main() {
	var showEvents bool

	root := &cobra.Command{
		Use:   "docchat-sim",
		Short: "Drive a document chat session end to end on the configured services",
	}
	root.PersistentFlags().BoolVar(&showEvents, "events", false, "print session events as they are published")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the scripted upload, question and preview walkthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), showEvents, runScript)
		},
	}

	var inboxDir string
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Upload every file dropped into a directory until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), showEvents, func(ctx context.Context, c *bootstrap.Container) error {
				return watchInbox(ctx, c, inboxDir)
			})
		},
	}
	watch.Flags().StringVar(&inboxDir, "dir", "inbox", "directory to watch for new documents")

	root.AddCommand(run, watch)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func withContainer(ctx context.Context, showEvents bool, fn func(context.Context, *bootstrap.Container) error) error {
	cfg := config.Load()

	c, err := bootstrap.NewContainer(cfg, nil)
	if err != nil {
		color.Red("Failed to start session: %v", err)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Close(shutdownCtx)
	}()

	if showEvents {
		if err := c.ConsumerService.Consume(ctx, func(e events.Event) {
			color.HiBlack("  · event %s %v", e.EventType(), e.Payload())
		}); err != nil {
			return err
		}
	}

	if cfg.Events.NatsURL != "" {
		sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL, c.Logger)
		if err == nil {
			defer sub.Close()
			err = sub.Subscribe(ctx, func(_ context.Context, e events.Event) error {
				color.HiBlack("  · nats  %s", e.EventType())
				return nil
			})
		}
		if err != nil {
			color.Yellow("NATS mirror unavailable: %v", err)
		}
	}

	return fn(ctx, c)
}

func runScript(ctx context.Context, c *bootstrap.Container) error {
	ctrl := c.Controller
	color.Cyan("=== Document Chat Simulation ===")
	printMessages(ctrl.Snapshot())

	color.Yellow("\n[1] Upload before accepting the disclaimer")
	_, err := ctrl.SubmitUpload(ctx, sampleDocuments[0])
	report(err)

	color.Yellow("\n[2] Accept the disclaimer (twice)")
	ctrl.AcceptDisclaimer()
	ctrl.AcceptDisclaimer()
	color.Green("disclaimer accepted: %v", ctrl.Snapshot().DisclaimerAccepted)

	color.Yellow("\n[3] Ask before any document is uploaded")
	report(ctrl.SubmitQuestion(ctx, sampleQuestions[0]))

	color.Yellow("\n[4] Upload documents")
	for _, file := range sampleDocuments {
		if err := c.Validator.Validate(file); err != nil {
			report(err)
			continue
		}
		doc, err := ctrl.SubmitUpload(ctx, file)
		if report(err) {
			color.Green("uploaded %s (%s)", doc.Name, doc.Id)
		}
	}
	_, err = ctrl.SubmitUpload(ctx, sampleDocuments[1])
	report(err)
	report(c.Validator.Validate(entity.FileDescriptor{Name: "scan.png", MimeType: "image/png", SizeBytes: 10}))
	printDocuments(ctrl.Snapshot())

	color.Yellow("\n[5] Ask questions and preview the first citation of each answer")
	for _, q := range sampleQuestions {
		color.White("\nUSER: %s", q)
		started := time.Now()
		if !report(ctrl.SubmitQuestion(ctx, q)) {
			continue
		}
		snap := ctrl.Snapshot()
		answer := snap.Messages[len(snap.Messages)-1]
		color.Cyan("AI (%v): %s", time.Since(started).Round(time.Millisecond), answer.Body)
		if len(answer.Citations) == 0 {
			continue
		}
		report(ctrl.OpenCitationPreview(toReferences(answer.Citations)))
		printPreview(ctrl.Snapshot())
		ctrl.CloseCitationPreview()
	}

	color.Yellow("\n[6] Delete lab_results.txt and reopen an old citation")
	snap := ctrl.Snapshot()
	for _, d := range snap.Documents {
		if d.Name == "lab_results.txt" {
			report(ctrl.DeleteDocument(d.Id))
		}
	}
	report(ctrl.OpenCitationPreview([]entity.CitationReference{{DocumentName: "lab_results.txt", Locator: "Line 1"}}))

	color.Yellow("\n[7] Clear history")
	report(ctrl.ClearHistory())
	printMessages(ctrl.Snapshot())

	printMetrics(c)
	return nil
}

func watchInbox(ctx context.Context, c *bootstrap.Container, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	w, err := inbox.NewWatcher(c.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	paths, err := w.Watch(ctx, dir)
	if err != nil {
		return err
	}

	c.Controller.AcceptDisclaimer()
	color.Cyan("Watching %s for .pdf, .docx and .txt files (Ctrl-C to stop)", dir)

	for path := range paths {
		file, err := inbox.Describe(path, c.Config.Upload.MaxBytes)
		if err != nil {
			report(err)
			continue
		}
		if err := c.Validator.Validate(file); err != nil {
			report(err)
			continue
		}
		doc, err := c.Controller.SubmitUpload(ctx, file)
		if report(err) {
			color.Green("uploaded %s", doc.Name)
			printDocuments(c.Controller.Snapshot())
		}
	}
	return nil
}

// report prints err in the colour of its kind and returns true when err is nil.
func report(err error) bool {
	var warning citation.ResolutionWarning
	var uploadErr *controller.UploadError
	var queryErr *controller.QueryError

	switch {
	case err == nil:
		return true
	case errors.As(err, &warning):
		color.Yellow("warning: %v", err)
	case errors.As(err, &uploadErr), errors.As(err, &queryErr):
		color.Red("failed: %v", err)
	default:
		color.Magenta("not admitted: %v", err)
	}
	return false
}

func toReferences(citations []dto.CitationDTO) []entity.CitationReference {
	refs := make([]entity.CitationReference, len(citations))
	for i, c := range citations {
		refs[i] = entity.CitationReference{DocumentName: c.DocumentName, Locator: c.Locator}
	}
	return refs
}

func printMessages(s dto.SessionSnapshot) {
	for _, m := range s.Messages {
		prefix := "SYSTEM"
		if m.Role == constant.ChatMessageRoleUser {
			prefix = "USER"
		}
		if m.Failed {
			prefix += " (failed)"
		}
		fmt.Printf("  %-16s %s\n", prefix, m.Body)
	}
}

func printDocuments(s dto.SessionSnapshot) {
	for _, d := range s.Documents {
		fmt.Printf("  📄 %s | %s | %s | %s\n", d.Name, d.SizeLabel, d.TypeLabel, d.UploadedAt.Format("2006-01-02"))
	}
	if s.Error != "" {
		color.Red("  banner: %s", s.Error)
	}
}

func printPreview(s dto.SessionSnapshot) {
	if s.Preview == nil {
		return
	}
	highlight := color.New(color.BgYellow, color.FgBlack).SprintFunc()
	fmt.Printf("  ┌ %s (%s)\n  │ ", s.Preview.DocumentName, s.Preview.CitationList)
	for _, seg := range s.Preview.Segments {
		if seg.Highlighted {
			fmt.Print(highlight(seg.Text))
		} else {
			fmt.Print(seg.Text)
		}
	}
	fmt.Println()
	for _, w := range s.Preview.Warnings {
		color.Yellow("  │ %s", w)
	}
}

func printMetrics(c *bootstrap.Container) {
	families, err := c.Metrics.Registry.Gather()
	if err != nil {
		return
	}
	color.Cyan("\n=== Metrics ===")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				labels += fmt.Sprintf("{%s=%s}", l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Printf("  %s%s %.0f\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Printf("  %s%s %.0f\n", mf.GetName(), labels, m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				fmt.Printf("  %s%s count=%d sum=%.3fs\n", mf.GetName(), labels, m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
}
