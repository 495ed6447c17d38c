package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/finvault/mpcx/ledger"
	"github.com/finvault/mpcx/types"
)

// -----------------------------------------------------------------------------
// Session CMD Prompt

var actionOpts = []string{
	"🦑 Request computation",
	"🐋 Process pending requests",
	"🐊 Show my results",
	"🦈 Switch user",
	"🐙 Show public key",
	"🌱 Add transaction",
	"🌿 Show transactions",
	"🍃 Exit",
}

var actions = map[string]func(*session) error{
	actionOpts[0]: requestComputation,
	actionOpts[1]: processPending,
	actionOpts[2]: showResults,
	actionOpts[3]: switchUser,
	actionOpts[4]: showPubkey,
	actionOpts[5]: addTransaction,
	actionOpts[6]: showTransactions,
	actionOpts[7]: exitSession,
}

// -----------------------------------------------------------------------------
// Perform actions

func performActions(sess *session) {
	var action string
	for {
		prompt := &survey.Select{
			Message: fmt.Sprintf("[%s] What do you want to do ?", sess.current),
			Options: actionOpts,
		}

		err := survey.AskOne(prompt, &action)
		if err != nil {
			printError(err)
			return
		}

		method := actions[action]
		err = method(sess)
		if err != nil {
			printError(err)
		}
	}
}

// -----------------------------------------------------------------------------
// CMD Actions

func requestComputation(sess *session) error {
	var participant string
	err := survey.AskOne(&survey.Input{Message: "Participant user id:"}, &participant)
	if err != nil {
		return err
	}

	var computationType string
	err = survey.AskOne(&survey.Select{
		Message: "Computation type:",
		Options: []string{
			types.ComputationSum,
			types.ComputationAverage,
			types.ComputationComparison,
		},
	}, &computationType)
	if err != nil {
		return err
	}

	input, err := promptInput(computationType)
	if err != nil {
		return err
	}

	request, err := sess.exchange().CreateRequest(participant, computationType, input)
	if err != nil {
		return err
	}

	fmt.Printf("Created request %s\n", request.ID)
	return nil
}

func processPending(sess *session) error {
	processed, err := sess.exchange().PollAndProcessPending()
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d pending requests\n", processed)
	return nil
}

func showResults(sess *session) error {
	results, err := sess.exchange().ListCompletedResults()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No completed results")
		return nil
	}
	for _, res := range results {
		fmt.Println(res)
	}
	return nil
}

func switchUser(sess *session) error {
	var userID string
	err := survey.AskOne(&survey.Input{Message: "User id:"}, &userID)
	if err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("empty user id")
	}
	return sess.use(userID)
}

func showPubkey(sess *session) error {
	pubkey, err := sess.exchange().PublicKeyOf(sess.current)
	if err != nil {
		return err
	}
	fmt.Println(pubkey)
	return nil
}

func addTransaction(sess *session) error {
	var description string
	err := survey.AskOne(&survey.Input{Message: "Description:"}, &description)
	if err != nil {
		return err
	}

	var amountStr string
	err = survey.AskOne(&survey.Input{Message: "Amount:"}, &amountStr)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return err
	}

	var txnType string
	err = survey.AskOne(&survey.Select{
		Message: "Type:",
		Options: []string{ledger.TypeExpense, ledger.TypeIncome},
	}, &txnType)
	if err != nil {
		return err
	}

	txn, err := sess.ledger().Add(description, amount, txnType)
	if err != nil {
		return err
	}
	fmt.Printf("Added transaction %s\n", txn.ID)
	return nil
}

func showTransactions(sess *session) error {
	txns, err := sess.ledger().Recent(0)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		fmt.Println("No transactions found")
		return nil
	}
	for _, txn := range txns {
		sign := "+"
		if txn.Type == ledger.TypeExpense {
			sign = "-"
		}
		fmt.Printf("%s%.2f  %s\n", sign, txn.Amount, txn.Description)
	}
	return nil
}

func exitSession(*session) error {
	fmt.Println("Bye 👋")
	os.Exit(0)
	return nil
}

// -----------------------------------------------------------------------------
// Helpers

// promptInput collects the plain input of a computation.
func promptInput(computationType string) (interface{}, error) {
	if computationType == types.ComputationComparison {
		values := map[string]interface{}{}
		for _, name := range []string{"a", "b"} {
			var valueStr string
			err := survey.AskOne(&survey.Input{
				Message: fmt.Sprintf("Value %s:", name),
			}, &valueStr)
			if err != nil {
				return nil, err
			}
			value, err := strconv.ParseFloat(valueStr, 64)
			if err != nil {
				return nil, err
			}
			values[name] = value
		}
		return values, nil
	}

	var numbersStr string
	err := survey.AskOne(&survey.Input{
		Message: "Numbers (comma separated):",
	}, &numbersStr)
	if err != nil {
		return nil, err
	}

	numbers := []float64{}
	if strings.TrimSpace(numbersStr) != "" {
		for _, part := range strings.Split(numbersStr, ",") {
			number, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, err
			}
			numbers = append(numbers, number)
		}
	}
	return numbers, nil
}

func printError(err error) {
	fmt.Printf("❌ %s\n", err)
}
