package db

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type fakeSecrets struct {
	value *string
	err   error
	asked string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(in.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestLoadCredentialsPrefersEnvironment(t *testing.T) {
	t.Setenv("DB_USERNAME", "app")
	t.Setenv("DB_PASSWORD", "pw")
	client := &fakeSecrets{err: errors.New("should not be called")}
	creds, err := LoadCredentials(context.Background(), "db/prod", client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Username != "app" || client.asked != "" {
		t.Fatalf("expected env credentials, got %+v (asked %q)", creds, client.asked)
	}
}

func TestLoadCredentialsFromSecret(t *testing.T) {
	t.Setenv("DB_USERNAME", "")
	t.Setenv("DB_PASSWORD", "")
	client := &fakeSecrets{value: aws.String(`{"username":"laborpay","password":"s3cret"}`)}
	creds, err := LoadCredentials(context.Background(), "db/prod", client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Username != "laborpay" || creds.Password != "s3cret" || client.asked != "db/prod" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
}

func TestLoadCredentialsRejectsEmptySecret(t *testing.T) {
	t.Setenv("DB_USERNAME", "")
	t.Setenv("DB_PASSWORD", "")
	for _, value := range []*string{nil, aws.String(`{"username":""}`)} {
		_, err := LoadCredentials(context.Background(), "db/prod", &fakeSecrets{value: value})
		if !errors.Is(err, ErrEmptySecret) {
			t.Fatalf("expected ErrEmptySecret, got %v", err)
		}
	}
}

func TestMigrationNamesSorted(t *testing.T) {
	dir := fstest.MapFS{
		"0002_more.sql": {Data: []byte("SELECT 1")},
		"0001_init.sql": {Data: []byte("SELECT 1")},
		"README.md":     {Data: []byte("notes")},
	}
	names, err := migrationNames(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "0001_init.sql" || names[1] != "0002_more.sql" {
		t.Fatalf("unexpected order %v", names)
	}
	bundled, err := migrationNames(Migrations())
	if err != nil || len(bundled) == 0 {
		t.Fatalf("expected bundled migrations, got %v (%v)", bundled, err)
	}
}
