// Package main provides a command-line client for the challenge API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"skate-challenge-service/client"
	"skate-challenge-service/models"
)

const usage = `usage: skatectl [flags] <command> [args]

commands:
  list [-status s] [-trick t] [-mine]   list challenges
  show <id>                              show a challenge and its attempts
  create -trick t [-difficulty n] [-buy-in cents] [-video url]
  join <id>                              join an open challenge
  attempt <id> -landed|-missed [-video url]
  users [query]                          list or search users

flags:
`

func main() {
	var server string
	var userID string
	flag.StringVar(&server, "server", envOr("SKATE_SERVER", "http://localhost:5200"), "service base URL (default: SKATE_SERVER)")
	flag.StringVar(&userID, "user", os.Getenv("SKATE_USER"), "acting user id (default: SKATE_USER)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cl := client.New(server, client.WithUserID(userID))
	if err := run(ctx, cl, userID, flag.Args(), os.Stdout); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", apiErr.Message, apiErr.Code)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cl *client.Client, userID string, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		status := fs.String("status", "", "open, active, completed or expired")
		trick := fs.String("trick", "", "trick name")
		mine := fs.Bool("mine", false, "only challenges involving -user")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		opts := client.ListOptions{Status: models.ChallengeStatus(*status), Trick: *trick}
		if *mine {
			opts.UserID = userID
		}
		list, err := cl.ListChallenges(ctx, opts)
		if err != nil {
			return err
		}
		printChallenges(out, list)
		return nil

	case "show":
		if len(rest) != 1 {
			return errors.New("show requires a challenge id")
		}
		c, err := cl.RefreshChallenge(ctx, rest[0])
		if err != nil {
			return err
		}
		attempts, err := cl.ListAttempts(ctx, c.ID)
		if err != nil {
			return err
		}
		printChallenge(out, c, attempts)
		return nil

	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		trick := fs.String("trick", "", "trick name")
		difficulty := fs.Int("difficulty", 1, "difficulty 1-5")
		buyIn := fs.Int64("buy-in", 0, "stake in cents")
		video := fs.String("video", "", "reference video URL")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		in := models.ChallengeInput{Trick: *trick, Difficulty: *difficulty, BuyIn: *buyIn}
		if *video != "" {
			in.VideoURL = video
		}
		c, err := cl.CreateChallenge(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %s\n", c.ID)
		return nil

	case "join":
		if len(rest) != 1 {
			return errors.New("join requires a challenge id")
		}
		c, err := cl.JoinChallenge(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "joined %s, your turn (%s)\n", c.ID, client.FormatCountdown(c.ExpiresAt, time.Now()))
		return nil

	case "attempt":
		if len(rest) == 0 {
			return errors.New("attempt requires a challenge id")
		}
		id := rest[0]
		fs := flag.NewFlagSet("attempt", flag.ContinueOnError)
		landed := fs.Bool("landed", false, "the trick was landed")
		missed := fs.Bool("missed", false, "the trick was missed")
		video := fs.String("video", "", "attempt video URL")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		if *landed == *missed {
			return errors.New("pass exactly one of -landed or -missed")
		}
		if _, err := cl.RecordAttempt(ctx, id, *landed, *video); err != nil {
			return err
		}
		c, err := cl.RefreshChallenge(ctx, id)
		if err != nil {
			return err
		}
		printChallenge(out, c, nil)
		return nil

	case "users":
		query := ""
		if len(rest) > 0 {
			query = rest[0]
		}
		users, err := cl.ListUsers(ctx, query)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME")
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%s\n", u.ID, u.Username)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func printChallenges(out io.Writer, list []models.Challenge) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTRICK\tSTATUS\tCREATOR\tOPPONENT\tBUY-IN\tTURN")
	now := time.Now()
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Trick, c.Status, c.CreatorID, orDash(c.OpponentID),
			client.FormatBuyIn(c.BuyIn), turnLabel(c, now))
	}
	_ = tw.Flush()
}

func printChallenge(out io.Writer, c models.Challenge, attempts []models.TrickAttempt) {
	now := time.Now()
	fmt.Fprintf(out, "%s  %s (difficulty %d, %s)\n", c.ID, c.Trick, c.Difficulty, client.FormatBuyIn(c.BuyIn))
	fmt.Fprintf(out, "status:   %s\n", c.Status)
	fmt.Fprintf(out, "creator:  %-20s %s\n", c.CreatorID, client.FormatLetters(c.CreatorLetters))
	fmt.Fprintf(out, "opponent: %-20s %s\n", orDash(c.OpponentID), client.FormatLetters(c.OpponentLetters))
	if c.CurrentTurn != nil {
		fmt.Fprintf(out, "turn:     %s\n", turnLabel(c, now))
	}
	if c.LoserID != nil {
		fmt.Fprintf(out, "loser:    %s\n", *c.LoserID)
	}
	if len(attempts) == 0 {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nWHEN\tUSER\tRESULT\tVIDEO")
	for _, a := range attempts {
		result := "missed"
		if a.Landed {
			result = "landed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Timestamp.Local().Format("Jan 2 15:04"), a.UserID, result, orDash(a.VideoURL))
	}
	_ = tw.Flush()
}

func turnLabel(c models.Challenge, now time.Time) string {
	if c.CurrentTurn == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", *c.CurrentTurn, client.FormatCountdown(c.ExpiresAt, now))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
