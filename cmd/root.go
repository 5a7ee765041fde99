package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Qovery/sweeper/pkg"
	"github.com/Qovery/sweeper/pkg/aws"
	"github.com/Qovery/sweeper/pkg/common"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Sweeper interactively lists and deletes S3 buckets and CloudFormation stacks",
	Long: `
Sweeper opens an interactive menu to list S3 buckets and CloudFormation stacks, select them
by wildcard and delete them after confirmation.

Buckets are emptied (every object version and delete marker) before being deleted. Stack
deletions are followed until CloudFormation reports a final state.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setLogLevel()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := loadOptions()
		if err != nil {
			return err
		}

		log.Infof("Starting Sweeper %s", GetCurrentVersion())

		return pkg.StartInteractive(cmd.Context(), options, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, context.Canceled) {
			fmt.Println("Interrupted")
			os.Exit(130)
		}
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sweeper.yaml)")
	rootCmd.PersistentFlags().String("level", "info", "set log level")
	common.InitFlags(rootCmd)

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.Fatalf("Can't bind flags: %s", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".sweeper")
	}

	viper.SetEnvPrefix("SWEEPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func setLogLevel() error {
	lvl, err := log.ParseLevel(viper.GetString("level"))
	if err != nil {
		return err
	}

	log.SetLevel(lvl)

	// use timestamp
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
	log.SetOutput(os.Stderr)
	return nil
}

func loadOptions() (pkg.Options, error) {
	session := aws.SessionOptions{
		AccessKey: viper.GetString("aws_access_key"),
		SecretKey: viper.GetString("aws_secret_key"),
		Region:    viper.GetString("aws_region"),
	}

	if err := common.CheckCredentials(session.AccessKey, session.SecretKey); err != nil {
		return pkg.Options{}, err
	}

	if strings.TrimSpace(session.Region) == "" {
		session.Region = common.DefaultRegion
	}

	maxPollAttempts := viper.GetInt("max-poll-attempts")
	if maxPollAttempts < 0 {
		return pkg.Options{}, common.NewUserInputError(fmt.Sprint(maxPollAttempts), "max-poll-attempts can't be negative")
	}

	return pkg.Options{
		AWS: aws.AwsOptions{
			Session:         session,
			PollInterval:    viper.GetDuration("poll-interval"),
			MaxPollAttempts: maxPollAttempts,
			DeleteRate:      viper.GetInt("delete-rate"),
			S3Endpoint:      viper.GetString("s3-endpoint"),
			S3Insecure:      viper.GetBool("s3-insecure"),
		},
		ContinueOnError: viper.GetBool("continue-on-error"),
	}, nil
}
