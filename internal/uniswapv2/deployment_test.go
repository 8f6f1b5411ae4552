package uniswapv2

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexSolver/internal/chain/chaintest"
)

func TestGetPairProvider(t *testing.T) {
	for _, chainID := range []uint64{1, 4} {
		fake := chaintest.NewFakeEth(chainID)
		fake.SetCode(uniswapFactory, []byte{0x60, 0x80})
		client, err := chaintest.NewClient(fake)
		require.NoError(t, err)

		provider, err := GetPairProvider(context.Background(), client, UniswapV2)
		require.NoError(t, err)
		assert.Equal(t, uniswapFactory, provider.Factory)
		assert.Equal(t, UniswapV2InitCodeDigest, provider.InitCodeDigest)
		assert.Equal(t, 1, fake.Calls("eth_getCode"))

		client.Close()
	}
}

func TestGetPairProviderSushiSwap(t *testing.T) {
	factory := common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac")
	fake := chaintest.NewFakeEth(1)
	fake.SetCode(factory, []byte{0x01})
	client, err := chaintest.NewClient(fake)
	require.NoError(t, err)
	defer client.Close()

	provider, err := GetPairProvider(context.Background(), client, SushiSwap)
	require.NoError(t, err)
	assert.Equal(t, factory, provider.Factory)
	assert.Equal(t, SushiSwapInitCodeDigest, provider.InitCodeDigest)
}

func TestGetPairProviderNotDeployed(t *testing.T) {
	unknownChain := chaintest.NewFakeEth(424242)
	client, err := chaintest.NewClient(unknownChain)
	require.NoError(t, err)
	defer client.Close()

	_, err = GetPairProvider(context.Background(), client, UniswapV2)
	assert.ErrorIs(t, err, ErrNotDeployed)
	assert.Equal(t, 0, unknownChain.Calls("eth_getCode"))

	noCode := chaintest.NewFakeEth(1)
	client2, err := chaintest.NewClient(noCode)
	require.NoError(t, err)
	defer client2.Close()

	_, err = GetPairProvider(context.Background(), client2, UniswapV2)
	assert.ErrorIs(t, err, ErrNotDeployed)
}

func TestGetPairProviderPropagatesTransportError(t *testing.T) {
	fake := chaintest.NewFakeEth(1)
	fake.FailWith(errors.New("node unavailable"))
	client, err := chaintest.NewClient(fake)
	require.NoError(t, err)
	defer client.Close()

	_, err = GetPairProvider(context.Background(), client, UniswapV2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node unavailable")
	assert.Equal(t, 1, fake.Calls("eth_chainId"))
}

func TestProtocolLookups(t *testing.T) {
	protocol, err := ParseProtocol(" SushiSwap ")
	require.NoError(t, err)
	assert.Equal(t, SushiSwap, protocol)

	_, err = ParseProtocol("curve")
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	_, err = InitCodeDigest(Protocol("curve"))
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	_, err = FactoryAddress(SushiSwap, 4)
	assert.ErrorIs(t, err, ErrNotDeployed)

	_, err = GetPairProvider(context.Background(), nil, Protocol("curve"))
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}
