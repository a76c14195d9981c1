package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"snipe-bot/commands"
	"syscall"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering global commands...")
	cmds := commands.GenerateCommands()
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, "", cmds)
	if err != nil {
		log.Fatalf("Cannot register commands: %v", err)
	}
	b.RegisteredCommands = registeredCmds

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
