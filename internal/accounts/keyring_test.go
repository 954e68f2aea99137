package accounts

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dev0 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	dev1 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func TestNewDevKeyring(t *testing.T) {
	keyring, err := NewDevKeyring(big.NewInt(31337))
	require.NoError(t, err)

	assert.Equal(t, 10, keyring.Len())

	first, err := keyring.Address(0)
	require.NoError(t, err)
	assert.Equal(t, dev0, first)

	second, err := keyring.Address(1)
	require.NoError(t, err)
	assert.Equal(t, dev1, second)

	last, err := keyring.Address(9)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xa0Ee7A142d267C1f36714E4a8F75612F20a79720"), last)

	_, err = keyring.Address(10)
	assert.Error(t, err)
}

func TestNewKeyringRefusesProductionChains(t *testing.T) {
	for _, chainID := range []int64{1, 10, 137, 8453, 42161} {
		_, err := NewDevKeyring(big.NewInt(chainID))
		assert.Error(t, err, "chain %d", chainID)
		assert.Contains(t, err.Error(), "publicly known")
	}
}

func TestNewKeyringAcceptsPrefixedKeys(t *testing.T) {
	keyring, err := NewKeyring(big.NewInt(11155111), []string{"0x" + DevPrivateKeys[1]})
	require.NoError(t, err)

	addr, err := keyring.Address(0)
	require.NoError(t, err)
	assert.Equal(t, dev1, addr)
}

func TestNewKeyringInvalidKey(t *testing.T) {
	_, err := NewKeyring(big.NewInt(31337), []string{"not-hex"})
	assert.Error(t, err)
}

func TestKeyringSignTransaction(t *testing.T) {
	chainID := big.NewInt(31337)
	keyring, err := NewDevKeyring(chainID)
	require.NoError(t, err)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     0,
		GasTipCap: big.NewInt(1e9),
		GasFeeCap: big.NewInt(10e9),
		Gas:       21000,
		To:        &dev1,
		Value:     big.NewInt(1e18),
	})

	signedTx, err := keyring.SignTransaction(context.Background(), dev0, tx)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signedTx)
	require.NoError(t, err)
	assert.Equal(t, dev0, from, "recovered address should match signer address")
}

func TestKeyringSignUnknownAddress(t *testing.T) {
	keyring, err := NewDevKeyring(big.NewInt(31337))
	require.NoError(t, err)

	unknown := common.HexToAddress("0x1234567890123456789012345678901234567890")
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1e9),
		Gas:      21000,
		Value:    big.NewInt(1e18),
	})

	_, err = keyring.SignTransaction(context.Background(), unknown, tx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no private key for address")
}
