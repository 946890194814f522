package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDownloadSignerSignAndVerify(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)
	token, expiresAt, err := signer.Sign("report-1", "2025/analysis-42.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	reportID, path, parsedExpiry, err := signer.Verify(token, false)
	require.NoError(t, err)
	require.Equal(t, "report-1", reportID)
	require.Equal(t, "2025/analysis-42.pdf", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestDownloadSignerTampered(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)
	token, _, err := signer.Sign("report-1", "2025/analysis-42.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Verify(token+"x", false)
	require.Error(t, err)
}

func TestDownloadSignerExpired(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Millisecond*10)
	token, _, err := signer.Sign("report-1", "2025/analysis-42.csv")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, _, err = signer.Verify(token, false)
	require.Error(t, err)

	reportID, path, _, err := signer.Verify(token, true)
	require.NoError(t, err)
	require.Equal(t, "report-1", reportID)
	require.Equal(t, "2025/analysis-42.csv", path)
}
