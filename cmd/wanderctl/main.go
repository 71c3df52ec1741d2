package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wanderstay/wander-chat/internal/api"
	"github.com/wanderstay/wander-chat/internal/chat"
	"github.com/wanderstay/wander-chat/internal/config"
	"github.com/wanderstay/wander-chat/internal/identity"
	"github.com/wanderstay/wander-chat/internal/profile"
	"golang.org/x/term"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	apiFlag := flag.String("api-url", "", "backend URL (overrides config)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	apiURL := *apiFlag
	if apiURL == "" {
		cfg, _ := config.Load(profile.ConfigPath())
		apiURL = cfg.ResolveAPIURL()
	}

	if err := profile.EnsureDir(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	creds := identity.NewStore(profile.CredentialsPath(profileName))
	client := api.New(apiURL, creds, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: wanderctl login <email>")
			os.Exit(1)
		}
		cmdLogin(ctx, client, creds, args[1])
	case "logout":
		creds.Clear()
		fmt.Println("Logged out.")
	case "whoami":
		cmdWhoami(creds, *jsonFlag)
	case "conversations":
		cmdConversations(ctx, client, creds, *jsonFlag)
	case "send":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: wanderctl send <conversation-id> <message>")
			os.Exit(1)
		}
		cmdSend(ctx, client, creds, args[1], args[2], *jsonFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: wanderctl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login <email>              Sign in (prompts for password)")
	fmt.Fprintln(os.Stderr, "  logout                     Discard stored credentials")
	fmt.Fprintln(os.Stderr, "  whoami                     Show the signed-in user id")
	fmt.Fprintln(os.Stderr, "  conversations              List conversations")
	fmt.Fprintln(os.Stderr, "  send <conv-id> <message>   Send a message")
}

func cmdLogin(ctx context.Context, client *api.Client, creds *identity.Store, email string) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	token, err := client.Login(ctx, email, string(password))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := creds.Save(token); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Signed in as %s\n", identity.UserID(token))
}

func cmdWhoami(creds *identity.Store, jsonOut bool) {
	userID := creds.UserID()
	if userID == "" {
		fmt.Fprintln(os.Stderr, "Not signed in.")
		os.Exit(1)
	}
	if jsonOut {
		outputJSON(map[string]string{"user_id": userID})
		return
	}
	fmt.Println(userID)
}

func cmdConversations(ctx context.Context, client *api.Client, creds *identity.Store, jsonOut bool) {
	viewer := creds.UserID()
	if viewer == "" {
		fmt.Fprintln(os.Stderr, "Not signed in.")
		os.Exit(1)
	}

	contacts, err := client.ListContacts(ctx, viewer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	convs := make([]chat.Conversation, len(contacts))
	for i, c := range contacts {
		convs[i] = chat.Project(c, viewer)
	}

	if jsonOut {
		outputJSON(convs)
		return
	}
	for _, c := range convs {
		preview := ""
		if c.LastMessage != nil {
			preview = c.LastMessage.Body
		}
		fmt.Printf("%-26s %-20s %s\n", c.ID, c.OtherUser.DisplayName(), preview)
	}
}

func cmdSend(ctx context.Context, client *api.Client, creds *identity.Store, convID, body string, jsonOut bool) {
	viewer := creds.UserID()
	if viewer == "" {
		fmt.Fprintln(os.Stderr, "Not signed in.")
		os.Exit(1)
	}

	contact, err := client.SendMessage(ctx, convID, body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	conv := chat.Project(contact, viewer)
	if jsonOut {
		outputJSON(conv)
		return
	}
	fmt.Printf("Sent to %s\n", conv.OtherUser.DisplayName())
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
