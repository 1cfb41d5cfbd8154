/*
 * role-menu-bot is a Discord bot that grants and revokes roles from reaction menus.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/lucasduport/role-menu-bot/pkg/config"
	"github.com/lucasduport/role-menu-bot/pkg/database"
	"github.com/lucasduport/role-menu-bot/pkg/discord"
	"github.com/lucasduport/role-menu-bot/pkg/server"
	"github.com/lucasduport/role-menu-bot/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "role-menu-bot",
	Short: "Discord bot that assigns roles from reaction menus",
	Long: `role-menu-bot watches a single guild channel for reactions on
role-menu messages. A role menu is any message whose last paragraph lists
"emoji: RoleName" lines; reacting with a listed emoji grants the member the
named role, removing the reaction revokes it.

It supports:
- Free-form role-menu messages parsed on every event
- Optional PostgreSQL audit trail of role mutations
- Optional HTTP status API for monitoring`,

	Run: func(cmd *cobra.Command, args []string) {
		utils.InfoLog("role-menu-bot is starting...")
		defer utils.Close()

		token := viper.GetString("discord-token")
		if token == "" {
			utils.ErrorLog("No Discord token provided, set DISCORD_TOKEN or --discord-token")
			os.Exit(1)
		}

		conf := &config.BotConfig{
			Token:           config.CredentialString(token),
			WatchChannel:    viper.GetString("watch-channel"),
			APIPort:         viper.GetInt("api-port"),
			DatabaseEnabled: viper.GetBool("db-enabled"),
		}

		// Optional audit database
		var db *database.DBManager
		if conf.DatabaseEnabled {
			var err error
			db, err = database.NewDBManager()
			if err != nil {
				utils.ErrorLog("Failed to initialize audit database: %v", err)
				os.Exit(1)
			}
			defer db.Close()
		} else {
			utils.InfoLog("Audit database disabled by configuration")
		}

		bot, err := discord.NewBot(conf, db)
		if err != nil {
			utils.ErrorLog("Failed to initialize Discord bot: %v", err)
			os.Exit(1)
		}

		if err := bot.Start(); err != nil {
			utils.ErrorLog("Failed to start Discord bot: %v", err)
			os.Exit(1)
		}
		defer bot.Stop()

		// Optional status API
		if conf.APIPort > 0 {
			api := server.NewStatusAPI(conf, bot, db)
			go func() {
				if err := api.Serve(); err != nil {
					utils.ErrorLog("Status API stopped: %v", err)
				}
			}()
		}

		utils.InfoLog("Bot is running, watching channel %q. Press CTRL+C to exit.", conf.WatchChannel)
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
		<-stop
		utils.InfoLog("Shutdown requested")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.role-menu-bot.yaml)")

	// Basic configuration flags
	rootCmd.Flags().StringP("discord-token", "t", "", "Discord bot token (env: DISCORD_TOKEN)")
	rootCmd.Flags().String("watch-channel", "channel-management", "Guild channel name watched for role-menu reactions")
	rootCmd.Flags().Int("api-port", 0, "Listening port of the status API (0 disables it)")
	rootCmd.Flags().Bool("db-enabled", false, "Record role mutations in PostgreSQL")

	// Bind all flags to viper
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		utils.ErrorLog("Error binding PFlags to viper")
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory and current directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".role-menu-bot")
	}

	// Replace hyphens with underscores in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read environment variables
	viper.AutomaticEnv()

	// Read in config file if found
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
