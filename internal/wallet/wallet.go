// Package wallet constructs transaction signers from host-supplied
// secrets: a raw private key or a BIP-39 mnemonic phrase. Key material is
// held only for the duration of one invocation and is never logged.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	bip39 "github.com/tyler-smith/go-bip39"
)

// Ethereum's BIP-44 path, m/44'/60'/0'/0/0.
var derivationPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

// ErrNoSecret is returned when neither a private key nor a mnemonic was
// supplied for an operation that must sign.
var ErrNoSecret = errors.New("no private key or mnemonic supplied")

// Signer signs transactions with a single account key.
type Signer struct {
	key *ecdsa.PrivateKey
}

// FromPrivateKey builds a signer from a hex-encoded private key. A 0x
// prefix is tolerated. Malformed keys propagate the crypto error as-is.
func FromPrivateKey(hexKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

// FromMnemonic builds a signer from a BIP-39 phrase, deriving the first
// external account at m/44'/60'/0'/0/0.
func FromMnemonic(phrase string) (*Signer, error) {
	if !bip39.IsMnemonicValid(phrase) {
		return nil, errors.New("invalid mnemonic")
	}

	seed := bip39.NewSeed(phrase, "")
	node, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	for _, index := range derivationPath {
		node, err = node.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive path component %d: %w", index, err)
		}
	}

	privKey, err := node.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	return &Signer{key: privKey.ToECDSA()}, nil
}

// FromSecrets builds a signer from whichever secret is present,
// preferring the private key.
func FromSecrets(privateKey, mnemonic string) (*Signer, error) {
	switch {
	case privateKey != "":
		return FromPrivateKey(privateKey)
	case mnemonic != "":
		return FromMnemonic(mnemonic)
	default:
		return nil, ErrNoSecret
	}
}

// Address returns the account address of the signing key.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// SignTx signs the transaction for the given chain.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return signed, nil
}
