package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dayanaadylkhanova/crossword/internal/entity"
	"github.com/dayanaadylkhanova/crossword/pkg/client"
	"github.com/dayanaadylkhanova/crossword/pkg/keys"
)

type globalOpts struct {
	addr    string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}
	root := &cobra.Command{
		Use:           "crossword",
		Short:         "Client for the crossword escrow server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	def := os.Getenv("SERVER_ADDR")
	if def == "" {
		def = "localhost:8080"
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", def, "server TCP address")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-call timeout including proof of work")

	root.AddCommand(
		newKeygenCmd(),
		newCreateCmd(opts),
		newSolveCmd(opts),
		newClaimCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newBalanceCmd(opts),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <phrase>",
		Short: "Print the public key derived from a phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kp := keys.FromPhrase(args[0])
			_, err := fmt.Fprintln(cmd.OutOrStdout(), kp.Public.String())
			return err
		},
	}
}

func newCreateCmd(opts *globalOpts) *cobra.Command {
	var (
		signerPhrase string
		answerPhrase string
		answersFile  string
		width        uint8
		height       uint8
		deposit      string
		creator      string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a puzzle and escrow its reward",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(answersFile)
			if err != nil {
				return fmt.Errorf("read answers: %w", err)
			}
			var answers []entity.Answer
			if err := json.Unmarshal(raw, &answers); err != nil {
				return fmt.Errorf("parse answers: %w", err)
			}
			amount, err := decimal.NewFromString(deposit)
			if err != nil {
				return fmt.Errorf("parse deposit: %w", err)
			}
			signer := keys.FromPhrase(signerPhrase)
			params := entity.NewPuzzleParams{
				AnswerPK:   keys.FromPhrase(answerPhrase).Public,
				Dimensions: entity.CoordinatePair{X: width, Y: height},
				Answers:    answers,
				Deposit:    amount,
				Creator:    entity.AccountID(creator),
			}
			var view entity.PuzzleView
			if err := call(cmd.Context(), opts, &signer, entity.MethodNewPuzzle, params, &view); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&signerPhrase, "signer", "", "phrase of the creator's signing key")
	cmd.Flags().StringVar(&answerPhrase, "answer", "", "solution phrase; its key becomes the puzzle id")
	cmd.Flags().StringVar(&answersFile, "answers", "", "JSON file with the answer list")
	cmd.Flags().Uint8Var(&width, "width", 0, "grid width")
	cmd.Flags().Uint8Var(&height, "height", 0, "grid height")
	cmd.Flags().StringVar(&deposit, "deposit", "0", "reward to escrow")
	cmd.Flags().StringVar(&creator, "creator", "", "creator account id")
	for _, f := range []string{"signer", "answer", "answers", "width", "height", "creator"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newSolveCmd(opts *globalOpts) *cobra.Command {
	var answerPhrase, solverPhrase string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Submit a solution and hand the claim to a fresh solver key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			answer := keys.FromPhrase(answerPhrase)
			params := entity.SubmitSolutionParams{SolverPK: keys.FromPhrase(solverPhrase).Public}
			var view entity.PuzzleView
			if err := call(cmd.Context(), opts, &answer, entity.MethodSubmitSolution, params, &view); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&answerPhrase, "answer", "", "solution phrase")
	cmd.Flags().StringVar(&solverPhrase, "solver", "", "phrase of the solver's own key")
	_ = cmd.MarkFlagRequired("answer")
	_ = cmd.MarkFlagRequired("solver")
	return cmd
}

func newClaimCmd(opts *globalOpts) *cobra.Command {
	var solverPhrase, receiver, memo, puzzle string
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim the reward of a solved puzzle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			solver := keys.FromPhrase(solverPhrase)
			params := entity.ClaimRewardParams{ReceiverAccID: entity.AccountID(receiver), Memo: memo}
			if puzzle != "" {
				pk, err := entity.ParsePublicKey(puzzle)
				if err != nil {
					return err
				}
				params.CrosswordPK = pk
			}
			var res entity.BalanceResult
			if err := call(cmd.Context(), opts, &solver, entity.MethodClaimReward, params, &res); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&solverPhrase, "solver", "", "phrase of the solver key named at solve time")
	cmd.Flags().StringVar(&receiver, "receiver", "", "account that receives the reward")
	cmd.Flags().StringVar(&memo, "memo", "", "memo stored with the claimed puzzle")
	cmd.Flags().StringVar(&puzzle, "puzzle", "", "puzzle public key; optional")
	_ = cmd.MarkFlagRequired("solver")
	_ = cmd.MarkFlagRequired("receiver")
	return cmd
}

func newListCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List unsolved puzzles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var views []entity.PuzzleView
			if err := call(cmd.Context(), opts, nil, entity.MethodUnsolved, nil, &views); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), views)
		},
	}
}

func newShowCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <public-key>",
		Short: "Show one puzzle in any status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := entity.ParsePublicKey(args[0])
			if err != nil {
				return err
			}
			var view entity.PuzzleView
			if err := call(cmd.Context(), opts, nil, entity.MethodPuzzle, entity.PuzzleParams{PublicKey: pk}, &view); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
}

func newBalanceCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account's paid-out balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res entity.BalanceResult
			params := entity.BalanceParams{Account: entity.AccountID(args[0])}
			if err := call(cmd.Context(), opts, nil, entity.MethodBalance, params, &res); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func call(ctx context.Context, opts *globalOpts, signer *keys.KeyPair, method string, params, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return client.New(opts.addr, opts.timeout).Call(ctx, signer, method, params, out)
}
