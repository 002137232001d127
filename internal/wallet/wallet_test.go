package wallet

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Well-known development key pair (hardhat/anvil account 0).
const (
	devPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devMnemonic   = "test test test test test test test test test test test junk"
	devAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestFromPrivateKey(t *testing.T) {
	s, err := FromPrivateKey(devPrivateKey)
	if err != nil {
		t.Fatalf("FromPrivateKey: %v", err)
	}
	if s.Address() != common.HexToAddress(devAddress) {
		t.Errorf("address = %s, want %s", s.Address().Hex(), devAddress)
	}
}

func TestFromPrivateKey_HexPrefix(t *testing.T) {
	s, err := FromPrivateKey("0x" + devPrivateKey)
	if err != nil {
		t.Fatalf("FromPrivateKey: %v", err)
	}
	if s.Address() != common.HexToAddress(devAddress) {
		t.Errorf("address = %s", s.Address().Hex())
	}
}

func TestFromPrivateKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "zz", "1234"} {
		if _, err := FromPrivateKey(key); err == nil {
			t.Errorf("FromPrivateKey(%q): expected error", key)
		}
	}
}

func TestFromMnemonic(t *testing.T) {
	s, err := FromMnemonic(devMnemonic)
	if err != nil {
		t.Fatalf("FromMnemonic: %v", err)
	}
	if s.Address() != common.HexToAddress(devAddress) {
		t.Errorf("address = %s, want %s", s.Address().Hex(), devAddress)
	}
}

func TestFromMnemonic_Invalid(t *testing.T) {
	if _, err := FromMnemonic("definitely not a valid phrase"); err == nil {
		t.Error("FromMnemonic accepted invalid phrase")
	}
}

func TestFromSecrets(t *testing.T) {
	if _, err := FromSecrets("", ""); !errors.Is(err, ErrNoSecret) {
		t.Errorf("err = %v, want ErrNoSecret", err)
	}

	s, err := FromSecrets(devPrivateKey, "")
	if err != nil {
		t.Fatalf("FromSecrets(key): %v", err)
	}
	if s.Address() != common.HexToAddress(devAddress) {
		t.Errorf("address = %s", s.Address().Hex())
	}

	s, err = FromSecrets("", devMnemonic)
	if err != nil {
		t.Fatalf("FromSecrets(mnemonic): %v", err)
	}
	if s.Address() != common.HexToAddress(devAddress) {
		t.Errorf("address = %s", s.Address().Hex())
	}
}

func TestSignTx(t *testing.T) {
	s, err := FromPrivateKey(devPrivateKey)
	if err != nil {
		t.Fatalf("FromPrivateKey: %v", err)
	}

	to := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	tx := types.NewTransaction(0, to, big.NewInt(1), 21000, big.NewInt(20_000_000_000), nil)

	chainID := big.NewInt(1)
	signed, err := s.SignTx(tx, chainID)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatalf("Sender: %v", err)
	}
	if sender != s.Address() {
		t.Errorf("recovered sender = %s, want %s", sender.Hex(), s.Address().Hex())
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(raw) == 0 {
		t.Error("empty raw transaction")
	}
}
