package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

var ErrEmptySecret = errors.New("database secret has no credentials")

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SecretGetter is the part of the Secrets Manager client used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LoadCredentials prefers DB_USERNAME and DB_PASSWORD from the environment and
// otherwise reads the secret. A nil client builds one from the default AWS
// credential chain.
func LoadCredentials(ctx context.Context, secretID string, client SecretGetter) (Credentials, error) {
	user, pass := os.Getenv("DB_USERNAME"), os.Getenv("DB_PASSWORD")
	if user != "" && pass != "" {
		return Credentials{Username: user, Password: pass}, nil
	}

	if client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return Credentials{}, fmt.Errorf("load aws config: %w", err)
		}
		client = secretsmanager.NewFromConfig(awsCfg)
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("get secret %s: %w", secretID, err)
	}
	if out.SecretString == nil {
		return Credentials{}, ErrEmptySecret
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode secret %s: %w", secretID, err)
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, ErrEmptySecret
	}
	return creds, nil
}
