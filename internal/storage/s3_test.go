package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	puts   []s3.PutObjectInput
	copies []s3.CopyObjectInput
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, *params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.copies = append(f.copies, *params)
	return &s3.CopyObjectOutput{}, nil
}

func TestKeyLayout(t *testing.T) {
	u := NewWithClient("bucket", "/npcvoice/", nil)
	ts := time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)
	if got := u.KeyForLine("npc-1", ts, "line.mp3"); got != "npcvoice/npc-1/20260831T123000Z/line.mp3" {
		t.Fatalf("line key wrong: %s", got)
	}
	if got := u.KeyForLatest("npc-1", "line.mp3"); got != "npcvoice/npc-1/latest/line.mp3" {
		t.Fatalf("latest key wrong: %s", got)
	}
}

func TestUploadBytes(t *testing.T) {
	fake := &fakeS3{}
	u := NewWithClient("bucket", "npcvoice", fake)

	if err := u.UploadBytes(context.Background(), "npcvoice/npc-1/latest/line.mp3", []byte{0x01, 0x02}, "audio/mpeg"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(fake.puts) != 1 {
		t.Fatalf("expected 1 put, got %d", len(fake.puts))
	}
	put := fake.puts[0]
	if *put.Bucket != "bucket" || *put.Key != "npcvoice/npc-1/latest/line.mp3" {
		t.Fatalf("put target wrong: %s %s", *put.Bucket, *put.Key)
	}
	if *put.ContentType != "audio/mpeg" {
		t.Fatalf("content type wrong: %s", *put.ContentType)
	}
	data, err := io.ReadAll(put.Body)
	if err != nil || len(data) != 2 {
		t.Fatalf("body wrong: %v %v", data, err)
	}
}

func TestCopyToLatest(t *testing.T) {
	fake := &fakeS3{}
	u := NewWithClient("bucket", "npcvoice", fake)

	if err := u.CopyToLatest(context.Background(), "npc-1", "npcvoice/npc-1/20260831T123000Z/line.mp3", "line.mp3", "audio/mpeg"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(fake.copies) != 1 {
		t.Fatalf("expected 1 copy, got %d", len(fake.copies))
	}
	cp := fake.copies[0]
	if *cp.Key != "npcvoice/npc-1/latest/line.mp3" {
		t.Fatalf("latest key wrong: %s", *cp.Key)
	}
	if *cp.CopySource != "bucket/npcvoice/npc-1/20260831T123000Z/line.mp3" {
		t.Fatalf("copy source wrong: %s", *cp.CopySource)
	}
}
