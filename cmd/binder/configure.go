package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively write a config file",
	Long: `Write a config.yaml by answering prompts for the server port,
database backend and S3 storage settings. Existing files are only
overwritten after confirmation.`,
	RunE: runConfigure,
}

var configureOutput string

func init() {
	configureCmd.Flags().StringVarP(&configureOutput, "output", "o", "config.yaml", "output path")

	rootCmd.AddCommand(configureCmd)
}

// configFileLayout mirrors the mapstructure keys config.Load reads.
type configFileLayout struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Type   string `yaml:"type"`
		DSN    string `yaml:"dsn"`
		Tables struct {
			Items string `yaml:"items"`
		} `yaml:"tables"`
	} `yaml:"database"`
	Storage struct {
		Bucket          string `yaml:"bucket"`
		Region          string `yaml:"region"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
		Endpoint        string `yaml:"endpoint,omitempty"`
	} `yaml:"storage"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func runConfigure(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(configureOutput); err == nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists. Overwrite it", configureOutput),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	var out configFileLayout

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: "8080",
		Validate: func(input string) error {
			port, err := strconv.Atoi(input)
			if err != nil || port < 1 || port > 65535 {
				return errors.New("port must be 1-65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	out.Server.Port, _ = strconv.Atoi(portStr)

	dbSelect := promptui.Select{
		Label: "Database backend",
		Items: []string{"sqlite", "postgres"},
	}
	_, dbType, err := dbSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}
	out.Database.Type = dbType

	dsnDefault := "binder.db"
	if dbType == "postgres" {
		dsnDefault = "postgres://localhost:5432/binder"
	}
	dsnPrompt := promptui.Prompt{
		Label:   "Database DSN",
		Default: dsnDefault,
	}
	out.Database.DSN, err = dsnPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	tablePrompt := promptui.Prompt{
		Label:   "Items table name",
		Default: "binder_items",
	}
	out.Database.Tables.Items, err = tablePrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	bucketPrompt := promptui.Prompt{
		Label: "S3 bucket",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("bucket is required")
			}
			return nil
		},
	}
	out.Storage.Bucket, err = bucketPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	regionPrompt := promptui.Prompt{
		Label:   "S3 region",
		Default: "us-east-1",
	}
	out.Storage.Region, err = regionPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	accessKeyPrompt := promptui.Prompt{
		Label: "Access key ID",
	}
	out.Storage.AccessKeyID, err = accessKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	secretKeyPrompt := promptui.Prompt{
		Label: "Secret access key",
		Mask:  '*',
	}
	out.Storage.SecretAccessKey, err = secretKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	endpointPrompt := promptui.Prompt{
		Label:   "Custom S3 endpoint (blank for AWS)",
		Default: "",
	}
	out.Storage.Endpoint, err = endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	logSelect := promptui.Select{
		Label: "Log level",
		Items: []string{"debug", "info", "warn", "error"},
	}
	_, out.Log.Level, err = logSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configureOutput, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", configureOutput)
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
