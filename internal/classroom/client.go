package classroom

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/apolo/internal/board"
	"github.com/sandeepkv93/apolo/internal/model"
	classroomapi "google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"
)

type Course struct {
	ID      string
	Name    string
	Section string
}

type CourseWork struct {
	ID          string
	CourseID    string
	Title       string
	Description string
	DueDate     string
}

type Client struct {
	svc *classroomapi.Service
}

func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := classroomapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("classroom: new service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Connect builds a client from the stored token.
func Connect(ctx context.Context, auth *Auth, store TokenStore) (*Client, error) {
	tok, err := LoadToken(ctx, store)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, option.WithTokenSource(auth.TokenSource(ctx, tok)))
}

// Courses lists the active courses across all pages.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	out := make([]Course, 0)
	err := c.svc.Courses.List().CourseStates("ACTIVE").Pages(ctx, func(page *classroomapi.ListCoursesResponse) error {
		for _, course := range page.Courses {
			out = append(out, Course{ID: course.Id, Name: course.Name, Section: course.Section})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("classroom: list courses: %w", err)
	}
	return out, nil
}

func (c *Client) CourseWork(ctx context.Context, courseID string) ([]CourseWork, error) {
	out := make([]CourseWork, 0)
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return out, nil
	}
	err := c.svc.Courses.CourseWork.List(courseID).Pages(ctx, func(page *classroomapi.ListCourseWorkResponse) error {
		for _, w := range page.CourseWork {
			out = append(out, CourseWork{
				ID:          w.Id,
				CourseID:    w.CourseId,
				Title:       w.Title,
				Description: w.Description,
				DueDate:     formatDate(w.DueDate),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("classroom: list course work %s: %w", courseID, err)
	}
	return out, nil
}

// TaskCreator is the part of the board ToTasks needs.
type TaskCreator interface {
	CreateTask(in board.NewTask) (model.Task, error)
}

// ToTasks creates one task per course work item. Items without a title are
// skipped.
func ToTasks(b TaskCreator, work []CourseWork) ([]model.Task, error) {
	out := make([]model.Task, 0, len(work))
	for _, w := range work {
		if strings.TrimSpace(w.Title) == "" {
			continue
		}
		t, err := b.CreateTask(board.NewTask{
			Title:       w.Title,
			Description: w.Description,
			DueDate:     w.DueDate,
			Kind:        model.KindTask,
			Priority:    model.PriorityHigh,
		})
		if err != nil {
			return out, fmt.Errorf("classroom: import %q: %w", w.Title, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func formatDate(d *classroomapi.Date) string {
	if d == nil || d.Year == 0 || d.Month == 0 || d.Day == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
