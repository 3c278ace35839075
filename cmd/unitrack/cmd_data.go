package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/progress"
)

var (
	sortField      string
	sortOrder      string
	semesterFilter string
	areaFilter     string
	exportOut      string
)

// statsCmd prints the progress overview
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show credit and grade progress",
	RunE:  runStats,
}

// coursesCmd lists courses
var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses",
	Long: `List courses with the same sorting and filtering the API offers.

Sort fields: name, semester, ects, grade, examDate.`,
	RunE: runCourses,
}

// exportCmd writes a backup document
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup of all tracker data",
	Long:  `Write a backup of all tracker data. Without --out the document goes to stdout.`,
	RunE:  runExport,
}

// restoreCmd replaces all data with a backup document
var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all tracker data with a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	coursesCmd.Flags().StringVar(&sortField, "sort", string(progress.SortBySemester), "Sort field")
	coursesCmd.Flags().StringVar(&sortOrder, "order", string(progress.Asc), "Sort order (asc or desc)")
	coursesCmd.Flags().StringVar(&semesterFilter, "semester", "all", "Semester filter (all or a number)")
	coursesCmd.Flags().StringVar(&areaFilter, "area", "all", "Area id filter (all or an id)")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file or directory")
}

func runStats(cmd *cobra.Command, args []string) error {
	deps, err := openDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	o := deps.Services.Progress.Overview()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Earned\t%d / %d ECTS (%.0f%%)\n", o.TotalEarned, o.TotalRequired, o.ProgressFraction*100)
	fmt.Fprintf(w, "Remaining\t%d ECTS\n", o.Remaining)
	fmt.Fprintf(w, "In progress\t%d ECTS\n", o.PendingCredits)
	fmt.Fprintf(w, "Average\t%s\n", o.AverageDisplay)
	if o.Thesis.Eligible {
		fmt.Fprintf(w, "Thesis\teligible\n")
	} else {
		fmt.Fprintf(w, "Thesis\t%d ECTS missing\n", o.Thesis.Shortfall)
	}
	fmt.Fprintln(w)
	for _, a := range o.Areas {
		fmt.Fprintf(w, "%s\t%d / %d ECTS\n", a.Area.Name, a.PassedCredits, a.Required)
	}
	return w.Flush()
}

func runCourses(cmd *cobra.Command, args []string) error {
	deps, err := openDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	q, err := deps.Services.Course.ParseQuery(sortField, sortOrder, semesterFilter, areaFilter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEM\tNAME\tECTS\tAREA\tSTATUS\tGRADE")
	for _, c := range deps.Services.Course.List(q) {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			c.Semester, c.Name, c.ECTS, c.Area, c.Status, progress.FormatGrade(c.Grade))
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	deps, err := openDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	backup, filename := deps.Services.Backup.Export()
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if exportOut == "" {
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}

	path := exportOut
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, filename)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Backup written to %s\n", path)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	var backup models.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup: %w", err)
	}

	deps, err := openDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.Services.Backup.Restore(cmd.Context(), backup); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Restored %d courses and %d areas\n", len(backup.Courses), len(backup.Areas))
	return nil
}
