// Command simulate runs an intake conversation in the terminal against the
// rule based oracle. Nothing is persisted.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/oracle/rules"
)

var (
	assistant = color.New(color.FgCyan).PrintfFunc()
	notice    = color.New(color.FgYellow).PrintfFunc()
	failure   = color.New(color.FgRed, color.Bold).PrintfFunc()
	success   = color.New(color.FgGreen, color.Bold).PrintfFunc()
)

func main() {
	machine := intake.NewMachine(rules.New(), intake.DefaultRegistry())
	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	color.New(color.Bold).Println("=== Legal Intake Simulation ===")
	assistant("Tell me what happened.\n")

	var session *intake.Session
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		text := strings.TrimSpace(in.Text())
		if text == "" {
			continue
		}

		var res *intake.Response
		var err error
		switch {
		case session == nil:
			session, res, err = machine.Start(ctx, uuid.NewString(), "simulator", intake.Turn{Text: text})
		case session.State == intake.StateActionChoice:
			res, err = machine.SelectAction(session, choice(session, text))
		default:
			res, err = machine.Submit(ctx, session, intake.Turn{Text: text})
		}
		if err != nil {
			if appErr, ok := apperror.From(err); ok {
				failure("[%s] %s\n", appErr.Kind, appErr.Message)
			} else {
				failure("%v\n", err)
			}
			continue
		}

		render(res)
		if res.State == intake.StateComplete {
			return
		}
	}
}

// choice accepts either the 1-based index of an action or its title.
func choice(s *intake.Session, text string) string {
	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(s.Choices) {
		return s.Choices[n-1].Title
	}
	return text
}

func render(res *intake.Response) {
	notice("[%s] domain=%q readiness=%d (%s)\n", res.State, res.Domain, res.ReadinessScore, res.ReadinessStatus)

	switch res.State {
	case intake.StateCollecting:
		if res.Question != nil {
			assistant("%s\n", res.Question.Text)
		}
	case intake.StateActionChoice:
		assistant("How would you like to proceed?\n")
		for i, c := range res.ActionChoice.Choices {
			assistant("  %d. %s\n", i+1, c.Title)
			for _, p := range c.Pros {
				fmt.Printf("       + %s\n", p)
			}
			for _, con := range c.Cons {
				fmt.Printf("       - %s\n", con)
			}
		}
	case intake.StateConfirmation:
		assistant("%s\n", res.Confirmation.Message)
		printEntities(res.Confirmation.Entities)
	case intake.StateComplete:
		success("%s\n", res.Complete.Message)
		if res.Complete.SelectedAction != "" {
			success("Action: %s\n", res.Complete.SelectedAction)
		}
		printEntities(res.Complete.Entities)
	}
}

func printEntities(entities map[string]string) {
	keys := make([]string, 0, len(entities))
	for k := range entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-20s %s\n", k, entities[k])
	}
}
