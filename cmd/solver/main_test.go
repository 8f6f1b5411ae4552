package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPairCommandWithFactory(t *testing.T) {
	out, err := execute(t, "", "pair",
		"--tokens", "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2,0x6810e776880c02933d47db1b9fc05908e5386b96",
		"--factory", "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
		"--log-level", "error",
	)
	require.NoError(t, err)

	var got pairOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, common.HexToAddress("0x3e8468f66d30fc99f745481d4b383f89861702c6").Hex(), got.Pair)
	assert.Equal(t, common.HexToAddress("0x6810e776880c02933d47db1b9fc05908e5386b96").Hex(), got.Token0)
	assert.Nil(t, got.Verified)
}

func TestPairCommandNeedsFactoryOrRPC(t *testing.T) {
	_, err := execute(t, "", "pair",
		"--tokens", "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2,0x6810e776880c02933d47db1b9fc05908e5386b96",
		"--log-level", "error",
	)
	assert.Error(t, err)
}

func TestSlippageCommand(t *testing.T) {
	out, err := execute(t, "", "slippage",
		"--token", "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		"--amount", "1000",
		"--relative-slippage", "0.01",
		"--log-level", "error",
	)
	require.NoError(t, err)

	var got slippageOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "0.01", got.Tolerance)
	assert.Equal(t, "10", got.Abs)
	assert.Equal(t, "990", got.Min)
	assert.Equal(t, "1010", got.Max)
}

func TestSlippageCommandAbsoluteCap(t *testing.T) {
	auction := filepath.Join(t.TempDir(), "auction.json")
	weth := "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	content := `{"id":1,"tokens":{"` + weth + `":{"decimals":18,"symbol":"WETH","referencePrice":"1000000000000000000"}}}`
	require.NoError(t, os.WriteFile(auction, []byte(content), 0o644))

	out, err := execute(t, "", "slippage",
		"--token", weth,
		"--amount", "100000000000000000000",
		"--relative-slippage", "0.01",
		"--absolute-slippage", "0.02",
		"--auction", auction,
		"--side", "sell",
		"--sell-token", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		"--quote", "300000000000",
		"--log-level", "error",
	)
	require.NoError(t, err)

	var got slippageOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	// 0.02 ether cap against 100 ether of value.
	assert.Equal(t, "0.0002", got.Tolerance)
	assert.Equal(t, "20000000000000000", got.Abs)
	assert.Equal(t, "99980000000000000000", got.MinOutput)
	assert.Equal(t, "300000000000", got.MaxInput)
}

func TestCompetitionSaveAndShow(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "competitions.jsonl")
	hash := "0x1111111111111111111111111111111111111111111111111111111111111111"

	_, err := execute(t, `{"solutions":[]}`, "competition", "save",
		"--id", "5", "--tx-hash", hash, "--out", out, "--log-level", "error")
	require.NoError(t, err)

	shown, err := execute(t, "", "competition", "show", "--tx-hash", hash, "--out", out, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, shown, `"auction_id":5`)
	assert.Contains(t, shown, `"solutions":[]`)

	_, err = execute(t, "", "competition", "show", "--id", "6", "--out", out, "--log-level", "error")
	assert.Error(t, err)

	_, err = execute(t, "", "competition", "show", "--out", out, "--log-level", "error")
	assert.Error(t, err)
}
