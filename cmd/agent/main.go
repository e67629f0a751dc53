package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fusefin/verify-call/go-agent/internal/agent"
	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/logging"
	"github.com/fusefin/verify-call/go-agent/internal/voice"
)

// #region main
func main() {
	dataPath := envOr("APPLICANT_DATA", "")
	logPath := envOr("CALL_LOG_DB", "call_log.db")

	// Load the applicant reference record. No data file means the
	// identity validator runs in fixed-reference fallback mode.
	var record *applicant.Record
	if dataPath != "" {
		loader, err := applicant.LoadFile(dataPath)
		if err != nil {
			log.Fatalf("failed to load applicant data: %v", err)
		}
		if rec, ok := loader.Next(); ok {
			record = &rec
			log.Printf("[AGENT] loaded applicant %s %s (%d records in file)",
				rec.FirstName, rec.LastName, loader.Count())
		}
	} else {
		log.Println("[AGENT] no APPLICANT_DATA set, using fixed-reference fallback")
	}

	callLog, err := logging.Open(logPath)
	if err != nil {
		log.Fatalf("failed to open call log: %v", err)
	}
	defer callLog.Close()

	sess, err := agent.New(record, agent.DefaultConfig())
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}

	fmt.Printf("Verification call agent ready.\n")
	fmt.Printf("  Session: %s | Provider: %s | Log: %s\n", sess.ID(), sess.ProviderName(), logPath)
	fmt.Println()
	fmt.Printf("agent: %s\n", sess.Start())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		reply, err := sess.ProcessInput(ctx, input)
		cancel()
		if err != nil {
			log.Printf("turn error: %v", err)
			continue
		}

		fmt.Printf("\nagent: %s\n\n", reply)

		last := sess.LastTurn()
		if last.TurnID != "" {
			entry := logging.TurnEntry{
				SessionID: sess.ID(),
				TurnID:    last.TurnID,
				Stage:     string(last.Stage),
				UserText:  input,
				Reply:     reply,
				Decision:  last.Decision,
				Reason:    last.Reason,
				FlagsJSON: logging.MarshalFlags(sess.Flags()),
				CreatedAt: time.Now().UTC(),
			}
			if last.Extracted != nil {
				if raw, err := json.Marshal(last.Extracted); err == nil {
					entry.ExtractedJSON = string(raw)
				}
			}
			if err := callLog.Append(entry); err != nil {
				log.Printf("call log error: %v", err)
			}
		}

		if sess.IsDone() {
			break
		}
	}

	printSummary(sess)
}

// #endregion main

// #region summary

func printSummary(sess *agent.Session) {
	flags := sess.Flags()
	data := sess.Data()

	fmt.Println("\n--- Call summary ---")
	switch {
	case flags.Complete:
		fmt.Println("Outcome: verification complete")
	case flags.Terminated:
		fmt.Println("Outcome: call terminated (identity not verified)")
	default:
		fmt.Println("Outcome: call ended early")
	}
	fmt.Printf("Identity verified: %v (attempts used: %d)\n",
		flags.IdentityVerified, flags.IdentityAttempts)

	if data.Identity.DOB != nil {
		fmt.Printf("DOB:      %s\n", *data.Identity.DOB)
	}
	if data.Identity.SSNLast4 != nil {
		fmt.Printf("SSN:      %s\n", voice.FormatSSN(*data.Identity.SSNLast4))
	}
	if data.Contact.Street != nil {
		fmt.Printf("Address:  %s, %s, %s %s\n",
			deref(data.Contact.Street), deref(data.Contact.City),
			deref(data.Contact.State), deref(data.Contact.Zip))
	}
	if data.Contact.Email != nil {
		fmt.Printf("Email:    %s\n", *data.Contact.Email)
	}
	if data.Financial.MonthlyIncome != nil {
		fmt.Printf("Income:   %s/month\n", voice.FormatIncome(*data.Financial.MonthlyIncome))
	}
	if data.Financial.JobTenure != nil {
		fmt.Printf("Tenure:   %d months\n", *data.Financial.JobTenure)
	}
}

// #endregion summary

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func deref(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

// #endregion helpers
