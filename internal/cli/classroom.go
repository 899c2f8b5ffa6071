package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/apolo/internal/classroom"
	"github.com/spf13/cobra"
)

func newClassroomCommand(opts *rootOptions) *cobra.Command {
	classroomCmd := &cobra.Command{
		Use:   "classroom",
		Short: "Google Classroom integration",
		Long:  "Sign in to Google Classroom, list courses and course work, and import course work as tasks.",
	}
	classroomCmd.AddCommand(newClassroomLoginCommand(opts))
	classroomCmd.AddCommand(newClassroomCoursesCommand(opts))
	classroomCmd.AddCommand(newClassroomCourseWorkCommand(opts))
	classroomCmd.AddCommand(newClassroomImportCommand(opts))
	return classroomCmd
}

// classroomAuth prefers the configured client id over the one saved from
// the settings screen.
func (a *app) classroomAuth(ctx context.Context) (*classroom.Auth, error) {
	clientID := a.cfg.Classroom.ClientID
	if clientID == "" {
		clientID = a.snaps.LoadPreferences(ctx).ClassroomClientID
	}
	return classroom.NewAuth(clientID, a.cfg.Classroom.ClientSecret, a.cfg.Classroom.RedirectURL)
}

func (a *app) classroomClient(ctx context.Context) (*classroom.Client, error) {
	auth, err := a.classroomAuth(ctx)
	if err != nil {
		return nil, err
	}
	return classroom.Connect(ctx, auth, a.snaps)
}

func newClassroomLoginCommand(opts *rootOptions) *cobra.Command {
	var clientID string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if clientID != "" {
				prefs := a.snaps.LoadPreferences(ctx)
				prefs.ClassroomClientID = strings.TrimSpace(clientID)
				if err := a.snaps.SavePreferences(ctx, prefs); err != nil {
					return fmt.Errorf("failed to save client id: %w", err)
				}
			}
			auth, err := a.classroomAuth(ctx)
			if err != nil {
				return err
			}

			cmd.Println("Open this URL in your browser and grant access:")
			cmd.Println(auth.AuthURL("apolo"))
			cmd.Print("Paste the authorization code: ")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read authorization code: %w", err)
				}
				return fmt.Errorf("no authorization code given")
			}
			tok, err := auth.Exchange(ctx, scanner.Text())
			if err != nil {
				return err
			}
			if err := classroom.SaveToken(ctx, a.snaps, tok); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			a.log.Info().Msg("classroom token stored")
			cmd.Println("Signed in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id to save before signing in")
	return cmd
}

func newClassroomCoursesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List active courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			client, err := a.classroomClient(ctx)
			if err != nil {
				return err
			}
			courses, err := client.Courses(ctx)
			if err != nil {
				return err
			}
			if len(courses) == 0 {
				cmd.Println("No active courses.")
				return nil
			}
			for _, c := range courses {
				name := c.Name
				if c.Section != "" {
					name += " (" + c.Section + ")"
				}
				cmd.Printf("%s  %s\n", c.ID, name)
			}
			return nil
		},
	}
}

func newClassroomCourseWorkCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "coursework <course-id>",
		Short: "List course work of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			client, err := a.classroomClient(ctx)
			if err != nil {
				return err
			}
			work, err := client.CourseWork(ctx, args[0])
			if err != nil {
				return err
			}
			for _, w := range work {
				due := w.DueDate
				if due == "" {
					due = "-"
				}
				cmd.Printf("%-10s  %s\n", due, w.Title)
			}
			cmd.Printf("%d items\n", len(work))
			return nil
		},
	}
}

func newClassroomImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <course-id>",
		Short: "Import course work as tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			client, err := a.classroomClient(ctx)
			if err != nil {
				return err
			}
			work, err := client.CourseWork(ctx, args[0])
			if err != nil {
				return err
			}
			tasks, err := classroom.ToTasks(a.loadBoard(ctx), work)
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d tasks from course %s\n", len(tasks), args[0])
			return nil
		},
	}
}
