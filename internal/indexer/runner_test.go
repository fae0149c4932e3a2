package indexer

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vaultUsers/internal/model"
	"vaultUsers/internal/solidity"
	"vaultUsers/internal/token"
)

type query struct {
	from, to uint64
	address  common.Address
	topic0   common.Hash
}

type stubSource struct {
	latest  uint64
	logs    []types.Log
	queries []query
	failAt  int
}

func (s *stubSource) GetChainID(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (s *stubSource) LatestBlockNumber(context.Context) (uint64, error) {
	return s.latest, nil
}

func (s *stubSource) FilterLogs(_ context.Context, from, to uint64, addresses []common.Address, topic0 []common.Hash) ([]types.Log, error) {
	s.queries = append(s.queries, query{from: from, to: to, address: addresses[0], topic0: topic0[0]})
	if s.failAt > 0 && len(s.queries) == s.failAt {
		return nil, errors.New("provider unavailable")
	}

	var out []types.Log
	for _, log := range s.logs {
		if log.Address != addresses[0] || log.Topics[0] != topic0[0] {
			continue
		}
		if log.BlockNumber < from || log.BlockNumber > to {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func topicLog(vault common.Address, block uint64, topic0 common.Hash, from, to string) types.Log {
	return types.Log{
		Address:     vault,
		BlockNumber: block,
		Topics: []common.Hash{
			topic0,
			common.BytesToHash(common.HexToAddress(from).Bytes()),
			common.BytesToHash(common.HexToAddress(to).Bytes()),
		},
	}
}

var testVault = common.HexToAddress("0xBEEF69Ac7870777598A04B2bd4771c71212E6aBc")

func TestRunnerSingleTransfer(t *testing.T) {
	dir := t.TempDir()
	source := &stubSource{
		latest: 20045981,
		logs: []types.Log{
			topicLog(testVault, 20045981, token.TransferTopic,
				"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		},
	}

	runner := NewRunner(RunConfig{
		FromBlock: 20045981,
		Vaults:    []common.Address{testVault},
		BatchSize: MaxWindowSize,
		OutDir:    dir,
	}, source, nil, zap.NewNop())
	require.NoError(t, runner.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, solidity.FileName(testVault.Hex())))
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "contract Users_0xBEEF69Ac7870777598A04B2bd4771c71212E6aBc {")
	assert.Contains(t, text, "address[] public users = [0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa, 0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb];")
	assert.Contains(t, text, "address[] public approvalsFrom;")
	assert.Contains(t, text, "address[] public approvalsTo;")

	assert.Equal(t, []query{
		{from: 20045981, to: 20045981, address: testVault, topic0: token.TransferTopic},
		{from: 20045981, to: 20045981, address: testVault, topic0: token.ApprovalTopic},
	}, source.queries)
}

type captureSink struct {
	snapshots []model.VaultSnapshot
}

func (c *captureSink) PutSnapshot(_ context.Context, snapshot model.VaultSnapshot) error {
	c.snapshots = append(c.snapshots, snapshot)
	return nil
}

func TestRunnerWindowsAndDedup(t *testing.T) {
	other := common.HexToAddress("0x84631c0d0081FDe56DeB72F6DE77abBbF6A9f93a")
	source := &stubSource{
		latest: 124,
		logs: []types.Log{
			topicLog(testVault, 100, token.TransferTopic, "0x1111111111111111111111111111111111111111", "0x2222222222222222222222222222222222222222"),
			topicLog(testVault, 115, token.TransferTopic, "0x2222222222222222222222222222222222222222", "0x1111111111111111111111111111111111111111"),
			topicLog(testVault, 124, token.TransferTopic, "0x3333333333333333333333333333333333333333", "0x1111111111111111111111111111111111111111"),
			topicLog(testVault, 101, token.ApprovalTopic, "0x1111111111111111111111111111111111111111", "0x9999999999999999999999999999999999999999"),
			topicLog(testVault, 123, token.ApprovalTopic, "0x1111111111111111111111111111111111111111", "0x9999999999999999999999999999999999999999"),
			topicLog(other, 110, token.TransferTopic, "0x4444444444444444444444444444444444444444", "0x5555555555555555555555555555555555555555"),
		},
	}
	sink := &captureSink{}

	runner := NewRunner(RunConfig{
		FromBlock: 100,
		Vaults:    []common.Address{testVault, other},
		BatchSize: 10,
		OutDir:    t.TempDir(),
	}, source, sink, nil)
	require.NoError(t, runner.Run(context.Background()))

	// [100,124] in windows of 10 with inclusive toBlock and no overlap.
	var ranges [][2]uint64
	for _, q := range source.queries[:6] {
		ranges = append(ranges, [2]uint64{q.from, q.to})
	}
	assert.Equal(t, [][2]uint64{{100, 109}, {100, 109}, {110, 119}, {110, 119}, {120, 124}, {120, 124}}, ranges)
	assert.Len(t, source.queries, 12)

	require.Len(t, sink.snapshots, 2)
	first := sink.snapshots[0]
	assert.Equal(t, testVault.Hex(), first.Vault)
	assert.Equal(t, uint64(100), first.FromBlock)
	assert.Equal(t, uint64(124), first.ToBlock)
	assert.Equal(t, []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333",
	}, first.Users)
	assert.Equal(t, []model.ApprovalPair{
		{From: "0x1111111111111111111111111111111111111111", To: "0x9999999999999999999999999999999999999999"},
	}, first.Approvals)

	second := sink.snapshots[1]
	assert.Equal(t, []string{
		"0x4444444444444444444444444444444444444444",
		"0x5555555555555555555555555555555555555555",
	}, second.Users)
	assert.Empty(t, second.Approvals)
}

func TestRunnerFailsFast(t *testing.T) {
	dir := t.TempDir()
	source := &stubSource{latest: 120, failAt: 1}

	runner := NewRunner(RunConfig{
		FromBlock: 100,
		Vaults:    []common.Address{testVault},
		BatchSize: 10,
		OutDir:    dir,
	}, source, nil, nil)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider unavailable")
	assert.Len(t, source.queries, 1)

	_, statErr := os.Stat(filepath.Join(dir, solidity.FileName(testVault.Hex())))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunnerNothingToScan(t *testing.T) {
	dir := t.TempDir()
	source := &stubSource{latest: 50}

	runner := NewRunner(RunConfig{
		FromBlock: 100,
		Vaults:    []common.Address{testVault},
		BatchSize: 10,
		OutDir:    dir,
	}, source, nil, nil)
	require.NoError(t, runner.Run(context.Background()))

	assert.Empty(t, source.queries)
	data, err := os.ReadFile(filepath.Join(dir, solidity.FileName(testVault.Hex())))
	require.NoError(t, err)
	assert.Contains(t, string(data), "address[] public users;")
}

func TestRunnerCapsBatchSize(t *testing.T) {
	source := &stubSource{latest: 30000}

	runner := NewRunner(RunConfig{
		FromBlock: 1,
		Vaults:    []common.Address{testVault},
		BatchSize: 50000,
		OutDir:    t.TempDir(),
	}, source, nil, nil)
	require.NoError(t, runner.Run(context.Background()))

	for _, q := range source.queries {
		assert.LessOrEqual(t, q.to-q.from+1, MaxWindowSize)
	}
	assert.Equal(t, uint64(30000), source.queries[len(source.queries)-1].to)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(RunConfig{
		FromBlock: 1,
		Vaults:    []common.Address{testVault},
		BatchSize: 10,
		OutDir:    t.TempDir(),
	}, &stubSource{latest: 100}, nil, nil)

	assert.ErrorIs(t, runner.Run(ctx), context.Canceled)
}

func TestRunnerValidation(t *testing.T) {
	source := &stubSource{latest: 1}
	assert.Error(t, NewRunner(RunConfig{Vaults: []common.Address{testVault}}, source, nil, nil).Run(context.Background()))
	assert.Error(t, NewRunner(RunConfig{BatchSize: 1}, source, nil, nil).Run(context.Background()))
	assert.Error(t, NewRunner(RunConfig{BatchSize: 1, Vaults: []common.Address{testVault}}, nil, nil, nil).Run(context.Background()))
}
