package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"nirman-fieldworks/internal/client/api"

	"github.com/spf13/cobra"
)

var (
	flagImages       []string
	flagDocument     string
	flagDesc         string
	flagSanctioned   float64
	flagReleased     float64
	flagRemaining    float64
	flagExpenditure  float64
	flagMBStage      string
	flagInstallments string
	flagLat          float64
	flagLng          float64
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Progress report operations",
}

var progressShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a proposal's progress history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := workClient.GetProgress(cmd.Context(), args[0])
		if err != nil {
			return reportError(err)
		}
		printJSON(raw)
		return nil
	},
}

var progressSubmitCmd = &cobra.Command{
	Use:   "submit <id>",
	Short: "Submit a progress report with photos and coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		if !controller.BeginSubmission(id) {
			return fmt.Errorf("a submission for proposal %s is already in flight", id)
		}
		defer controller.EndSubmission(id)

		sub := api.ProgressSubmission{
			Description:              flagDesc,
			SanctionedAmount:         flagSanctioned,
			TotalAmountReleasedSoFar: flagReleased,
			RemainingBalance:         flagRemaining,
			ExpenditureAmount:        flagExpenditure,
			MBStage:                  flagMBStage,
		}

		if flagInstallments != "" {
			var installments []api.Installment
			if err := json.Unmarshal([]byte(flagInstallments), &installments); err != nil {
				return fmt.Errorf("--installments must be a JSON array: %w", err)
			}
			sub.Installments = installments
		}

		if cmd.Flags().Changed("lat") {
			lat := flagLat
			sub.Latitude = &lat
		}
		if cmd.Flags().Changed("lng") {
			lng := flagLng
			sub.Longitude = &lng
		}

		var closers []*os.File
		defer func() {
			for _, f := range closers {
				f.Close()
			}
		}()

		for _, path := range flagImages {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("cannot open image %s: %w", path, err)
			}
			closers = append(closers, f)
			sub.Images = append(sub.Images, api.Image{
				Name:     filepath.Base(path),
				MimeType: mimeTypeFor(path, "image/jpeg"),
				Reader:   f,
			})
		}

		if flagDocument != "" {
			f, err := os.Open(flagDocument)
			if err != nil {
				return fmt.Errorf("cannot open document %s: %w", flagDocument, err)
			}
			closers = append(closers, f)
			sub.Document = &api.Image{
				Name:     filepath.Base(flagDocument),
				MimeType: mimeTypeFor(flagDocument, "application/pdf"),
				Reader:   f,
			}
		}

		raw, err := workClient.SubmitProgress(cmd.Context(), id, sub)
		if err != nil {
			return reportError(err)
		}

		fmt.Println("✅ Progress submitted")
		printJSON(raw)
		return nil
	},
}

// mimeTypeFor guesses a content type from the file extension.
func mimeTypeFor(path, fallback string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return fallback
}

func init() {
	progressSubmitCmd.Flags().StringArrayVar(&flagImages, "image", nil, "image file (repeatable, up to 5)")
	progressSubmitCmd.Flags().StringVar(&flagDocument, "document", "", "supporting document file")
	progressSubmitCmd.Flags().StringVar(&flagDesc, "desc", "", "progress description")
	progressSubmitCmd.Flags().Float64Var(&flagSanctioned, "sanctioned", 0, "sanctioned amount")
	progressSubmitCmd.Flags().Float64Var(&flagReleased, "released", 0, "total amount released so far")
	progressSubmitCmd.Flags().Float64Var(&flagRemaining, "remaining", 0, "remaining balance")
	progressSubmitCmd.Flags().Float64Var(&flagExpenditure, "expenditure", 0, "expenditure amount")
	progressSubmitCmd.Flags().StringVar(&flagMBStage, "mb-stage", "", "measurement book stage")
	progressSubmitCmd.Flags().StringVar(&flagInstallments, "installments", "", "installment breakdown as a JSON array")
	progressSubmitCmd.Flags().Float64Var(&flagLat, "lat", 0, "latitude")
	progressSubmitCmd.Flags().Float64Var(&flagLng, "lng", 0, "longitude")

	progressCmd.AddCommand(progressSubmitCmd)
	progressCmd.AddCommand(progressShowCmd)
}
