package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"crafting_arena/internal/domain"
	"crafting_arena/internal/nftattr"
	"crafting_arena/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NFTService mints and recreates NFT instances. Attribute strings,
// hashes and media URIs are derived from the character or tool stats,
// so a recreate after an upgrade swaps the whole metadata set.
type NFTService struct {
	tokens *repository.TokenRepository
	nfts   *repository.NFTRepository
	mover  *TokenService
}

func NewNFTService(db *pgxpool.Pool, mover *TokenService) *NFTService {
	return &NFTService{
		tokens: repository.NewTokenRepository(db),
		nfts:   repository.NewNFTRepository(db),
		mover:  mover,
	}
}

// CreateCharacterWithTx mints a character NFT to the owner and returns
// the new instance nonce.
func (s *NFTService) CreateCharacterWithTx(ctx context.Context, tx pgx.Tx, collection, owner string, ch domain.Character) (uint64, error) {
	nonce, err := s.tokens.NextNonceWithTx(ctx, tx, collection)
	if err != nil {
		return 0, err
	}

	attrs := nftattr.EncodeCharacter(domain.IPFSCharactersCID, ch.FileName(), ch)
	n := &domain.NFT{
		Collection:     collection,
		Nonce:          nonce,
		Name:           ch.Name(nonce),
		Royalties:      domain.CharacterNFTRoyalties,
		Attributes:     attrs,
		AttributesHash: attributesHash(attrs),
		URIs:           assetURIs(domain.IPFSCharactersCID, ch.FileName()),
	}
	if err := s.nfts.CreateWithTx(ctx, tx, n); err != nil {
		return 0, err
	}
	if err := s.mover.MintWithTx(ctx, tx, owner, collection, nonce, 1, "nft_create"); err != nil {
		return 0, err
	}
	return nonce, nil
}

// RecreateCharacterWithTx replaces a character NFT's metadata in place
func (s *NFTService) RecreateCharacterWithTx(ctx context.Context, tx pgx.Tx, collection string, nonce uint64, ch domain.Character) error {
	attrs := nftattr.EncodeCharacter(domain.IPFSCharactersCID, ch.FileName(), ch)
	return s.nfts.RecreateWithTx(ctx, tx, &domain.NFT{
		Collection:     collection,
		Nonce:          nonce,
		Name:           ch.Name(nonce),
		Royalties:      domain.CharacterNFTRoyalties,
		Attributes:     attrs,
		AttributesHash: attributesHash(attrs),
		URIs:           assetURIs(domain.IPFSCharactersCID, ch.FileName()),
	})
}

// CreateToolWithTx mints a tool NFT to the owner and returns the nonce
func (s *NFTService) CreateToolWithTx(ctx context.Context, tx pgx.Tx, collection, owner string, t domain.Tool) (uint64, error) {
	nonce, err := s.tokens.NextNonceWithTx(ctx, tx, collection)
	if err != nil {
		return 0, err
	}

	attrs := nftattr.EncodeTool(domain.IPFSToolsCID, t.FileName(), t)
	n := &domain.NFT{
		Collection:     collection,
		Nonce:          nonce,
		Name:           t.Name(nonce),
		Royalties:      domain.ToolNFTRoyalties,
		Attributes:     attrs,
		AttributesHash: attributesHash(attrs),
		URIs:           assetURIs(domain.IPFSToolsCID, t.FileName()),
	}
	if err := s.nfts.CreateWithTx(ctx, tx, n); err != nil {
		return 0, err
	}
	if err := s.mover.MintWithTx(ctx, tx, owner, collection, nonce, 1, "nft_create"); err != nil {
		return 0, err
	}
	return nonce, nil
}

// GetCharacterWithTx loads and decodes a character NFT's stats
func (s *NFTService) GetCharacterWithTx(ctx context.Context, tx pgx.Tx, collection string, nonce uint64) (domain.Character, error) {
	n, err := s.nfts.GetWithTx(ctx, tx, collection, nonce)
	if err != nil {
		return domain.Character{}, err
	}
	if n == nil {
		return domain.Character{}, fmt.Errorf("character NFT %s-%d not found", collection, nonce)
	}
	return nftattr.DecodeCharacter(n.Attributes)
}

// GetToolWithTx loads and decodes a tool NFT's stats
func (s *NFTService) GetToolWithTx(ctx context.Context, tx pgx.Tx, collection string, nonce uint64) (domain.Tool, error) {
	n, err := s.nfts.GetWithTx(ctx, tx, collection, nonce)
	if err != nil {
		return domain.Tool{}, err
	}
	if n == nil {
		return domain.Tool{}, fmt.Errorf("tool NFT %s-%d not found", collection, nonce)
	}
	return nftattr.DecodeTool(n.Attributes)
}

// Get returns an NFT instance for the metadata view
func (s *NFTService) Get(ctx context.Context, collection string, nonce uint64) (*domain.NFT, error) {
	return s.nfts.Get(ctx, collection, nonce)
}

func attributesHash(attrs string) string {
	sum := sha256.Sum256([]byte(attrs))
	return hex.EncodeToString(sum[:])
}

func assetURIs(cid, fileName string) []string {
	return []string{
		fmt.Sprintf("https://%s.ipfs.w3s.link/%s.%s", cid, fileName, domain.NFTImageFileExtension),
		fmt.Sprintf("https://%s.ipfs.w3s.link/%s.%s", cid, fileName, domain.NFTMetadataFileExtension),
	}
}
