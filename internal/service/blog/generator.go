package blog

import (
	"context"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
)

// SimulatedGenerator stands in for a remote generation job: it waits for the
// configured delay and returns a fixed result.
type SimulatedGenerator struct {
	OutlineDelay time.Duration
	ArticleDelay time.Duration
}

// Outline waits OutlineDelay and returns the fixed outline.
func (g SimulatedGenerator) Outline(ctx context.Context, _ OutlineParams) (*domain.Outline, error) {
	if err := sleep(ctx, g.OutlineDelay); err != nil {
		return nil, err
	}
	return sampleOutline(), nil
}

// Article waits ArticleDelay and returns placeholder text.
func (g SimulatedGenerator) Article(ctx context.Context, _ *domain.Outline) (string, error) {
	if err := sleep(ctx, g.ArticleDelay); err != nil {
		return "", err
	}
	return "Generated article content...", nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func heading(id string, level domain.HeadingLevel, title string) domain.OutlineHeading {
	return domain.OutlineHeading{ID: id, Level: level, Title: title}
}

func sampleOutline() *domain.Outline {
	return &domain.Outline{
		Intro: heading("", domain.HeadingH1, "Introduction"),
		Sections: []domain.OutlineSection{
			{
				OutlineHeading: heading("h2_1", domain.HeadingH2, "Influential Leadership and Policies"),
				Subsections: []domain.OutlineHeading{
					heading("h3_1", domain.HeadingH3, "George Washington: Setting Precedents"),
					heading("h3_2", domain.HeadingH3, "Abraham Lincoln: Preserving the Union"),
					heading("h3_3", domain.HeadingH3, "Franklin D. Roosevelt: New Deal and WWII"),
				},
			},
			{
				OutlineHeading: heading("h2_2", domain.HeadingH2, "Legacy and Impact on Society"),
				Subsections: []domain.OutlineHeading{
					heading("h3_4", domain.HeadingH3, "Thomas Jefferson: Expansion and Enlightenment"),
					heading("h3_5", domain.HeadingH3, "Theodore Roosevelt: Progressive Reforms"),
				},
			},
		},
	}
}
