package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dexcore/internal/storage"
)

func runPools(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("snapshots")
	if path == "" {
		return fmt.Errorf("snapshots path is required")
	}

	states, err := storage.ReadPoolStates(path)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		fmt.Println("no pools")
		return nil
	}

	for _, st := range states {
		fmt.Printf("%s / %s\n", st.AssetA, st.AssetB)
		fmt.Printf("  reserves:     %s / %s\n", st.ReserveA, st.ReserveB)
		fmt.Printf("  total shares: %s (%s)\n", st.TotalShares, st.ShareToken)
		fmt.Printf("  fee: %d bps, slippage: %d bps, spread: %d bps\n",
			st.SwapFeeBps, st.MaxAllowedSlippageBps, st.MaxAllowedSpreadBps)
	}

	return nil
}
