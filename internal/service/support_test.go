package service

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/maheshrc27/postbatch/configs"
	"github.com/maheshrc27/postbatch/internal/models"
)

type fakePutter struct {
	key, contentType, bucket string
	body                     []byte
	err                      error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key, f.bucket, f.contentType = *in.Key, *in.Bucket, *in.ContentType
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestR2Upload(t *testing.T) {
	putter := &fakePutter{}
	r2 := &R2Service{config: cfg.R2{BucketName: "media", PublicURL: "https://cdn.test/"}, client: putter}

	res, err := r2.Upload(context.Background(), models.UploadFile{
		Name:     "Clip.MP4",
		MimeType: "video/mp4",
		Data:     base64.StdEncoding.EncodeToString([]byte("movie")),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Type != models.MediaTypeVideo {
		t.Errorf("expected video type, got %q", res.Type)
	}
	if !strings.HasSuffix(putter.key, ".mp4") || res.URL != "https://cdn.test/"+putter.key {
		t.Errorf("unexpected key %q or url %q", putter.key, res.URL)
	}
	if putter.bucket != "media" || string(putter.body) != "movie" {
		t.Errorf("unexpected put %q / %q", putter.bucket, putter.body)
	}
}

func TestR2UploadErrors(t *testing.T) {
	r2 := &R2Service{client: &fakePutter{}}
	if _, err := r2.Upload(context.Background(), models.UploadFile{Name: "a.jpg", Data: "%%%"}); err == nil {
		t.Error("expected decode error")
	}

	r2 = &R2Service{client: &fakePutter{err: errors.New("denied")}}
	if _, err := r2.Upload(context.Background(), models.UploadFile{Name: "a.jpg", Data: "AAAA"}); err == nil {
		t.Error("expected put error")
	}
}

func TestGenerativeServiceMissingKey(t *testing.T) {
	gen := NewGenerativeService("", "")

	if _, err := gen.GenerateDraft(context.Background(), DraftRequest{Topic: "x"}, ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := gen.GenerateVariations(context.Background(), "x", 2, models.ToneCasual, ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	got, err := gen.GenerateVariations(context.Background(), "x", 0, models.ToneCasual, "")
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty result for zero count, got %v (%v)", got, err)
	}
}

func TestDraftPrompt(t *testing.T) {
	p := draftPrompt(DraftRequest{Topic: "sunset villa", Tone: models.ToneFunny, Audience: "families", PostType: models.PostTypeTextWithBackground}, false)

	for _, want := range []string{`"sunset villa"`, "families", toneInstructions[models.ToneFunny], "130"} {
		if !strings.Contains(p, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(draftPrompt(DraftRequest{Topic: "x"}, true), "Main idea") {
		t.Error("expected image prompt to describe the photos instead")
	}
}
