package assignment

import (
	"context"
	"encoding/base64"
	"math"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// IsLate reports whether a submission instant is past the due date.
// A tie (equal instant) is not late.
func IsLate(dueDate, submittedAt time.Time) bool {
	return submittedAt.After(dueDate)
}

// Percentage computes score/maxScore as a percentage rounded to 1 decimal.
// The clamp is a safety net; out-of-range scores are rejected at validation time.
func Percentage(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	if score < 0 {
		score = 0
	} else if score > maxScore {
		score = maxScore
	}
	return math.Round(score/maxScore*1000) / 10
}

// ApplyGrade transitions a submission to graded with the given score and
// comment. Last write wins: re-applying the same grade is a no-op, a new score
// overwrites the old one, and a graded submission never goes back to ungraded.
func ApplyGrade(sub Submission, a Assignment, gf GradeForm) Submission {
	sub.Grading.Status = StatusGraded
	sub.Grading.Score = gf.Score
	sub.Grading.MaxScore = a.TotalPoints
	sub.Grading.Percentage = Percentage(gf.Score, a.TotalPoints)
	sub.Grading.Comment = gf.Comment
	return sub
}

// PrepareSubmission validates raw form state and encodes its binary
// attachments concurrently, preserving order. If any single attachment fails
// to encode the whole preparation fails; there are no partial submissions.
func PrepareSubmission(ctx context.Context, form SubmissionForm) (SubmissionPayload, error) {
	if err := form.Validate(); err != nil {
		return SubmissionPayload{}, err
	}

	payload := SubmissionPayload{
		Text:   form.Text,
		Files:  make([]Attachment, len(form.Files)),
		Images: make([]Attachment, len(form.Images)),
	}

	g, _ := errgroup.WithContext(ctx)
	for i, up := range form.Files {
		i, up := i, up
		g.Go(func() error {
			at, err := encodeUpload(up)
			if err != nil {
				return errors.Wrapf(err, "encoding file %q", up.Filename)
			}
			payload.Files[i] = at
			return nil
		})
	}
	for i, up := range form.Images {
		i, up := i, up
		g.Go(func() error {
			at, err := encodeUpload(up)
			if err != nil {
				return errors.Wrapf(err, "encoding image %q", up.Filename)
			}
			payload.Images[i] = at
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SubmissionPayload{}, err
	}
	return payload, nil
}

var errEmptyUpload = errors.New("attachment has no content")

func encodeUpload(up Upload) (Attachment, error) {
	if len(up.Data) == 0 {
		return Attachment{}, errEmptyUpload
	}
	ct := up.ContentType
	if ct == "" {
		ct = http.DetectContentType(up.Data)
	}
	return Attachment{
		Filename:    up.Filename,
		ContentType: ct,
		Content:     base64.StdEncoding.EncodeToString(up.Data),
	}, nil
}
