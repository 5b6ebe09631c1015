package artifacts

import (
	"errors"
	"log"
	"sync/atomic"

	"nodosml-tf/internal/engine"
	"nodosml-tf/internal/profile"
)

// Bundle agrupa los artefactos cargados para el serving. Es de solo
// lectura: el camino online nunca lo muta.
type Bundle struct {
	Profiles *Profiles
	KMeans   *KMeans
	KNN      *KNN

	index *engine.Index // construido una vez al cargar
}

// Index devuelve el índice KNN, o nil si no hay artefacto (el agregador
// cae a modo popularidad).
func (b *Bundle) Index() *engine.Index {
	if b == nil {
		return nil
	}
	return b.index
}

// Scaler devuelve el scaler ajustado, o nil si no hay perfiles persistidos.
func (b *Bundle) Scaler() *profile.Scaler {
	if b == nil || b.Profiles == nil {
		return nil
	}
	return b.Profiles.Scaler
}

// LoadBundle carga los artefactos desde dir. Artefactos ausentes no son
// error (arranque sin modelos = solo popularidad); corruptos sí.
func LoadBundle(dir string) (*Bundle, error) {
	b := &Bundle{}

	p, err := LoadProfiles(dir)
	switch {
	case err == nil:
		b.Profiles = p
	case errors.Is(err, ErrMissing):
		log.Printf("[artifacts] sin perfiles persistidos (%v), serving degradado", err)
	default:
		return nil, err
	}

	m, err := LoadKMeans(dir)
	switch {
	case err == nil:
		b.KMeans = m
	case errors.Is(err, ErrMissing):
		log.Printf("[artifacts] sin modelo kmeans (%v)", err)
	default:
		return nil, err
	}

	k, err := LoadKNN(dir)
	switch {
	case err == nil:
		b.KNN = k
	case errors.Is(err, ErrMissing):
		log.Printf("[artifacts] sin modelo knn (%v), solo modo popularidad", err)
	default:
		return nil, err
	}

	if b.KNN != nil {
		ix, err := engine.BuildIndex(b.KNN.UserIDs, b.KNN.Vectors)
		if err != nil {
			return nil, err
		}
		b.index = ix
	}
	return b, nil
}

// Store guarda el bundle vigente detrás de un puntero atómico: las
// lecturas en vuelo nunca ven un artefacto a medio recargar.
type Store struct {
	cur atomic.Pointer[Bundle]
}

func NewStore(b *Bundle) *Store {
	s := &Store{}
	s.cur.Store(b)
	return s
}

// Current devuelve el bundle vigente (puede ser un bundle vacío).
func (s *Store) Current() *Bundle {
	return s.cur.Load()
}

// Reload carga desde disco y recién entonces hace el swap: copy-and-swap.
func (s *Store) Reload(dir string) (*Bundle, error) {
	b, err := LoadBundle(dir)
	if err != nil {
		return nil, err
	}
	s.cur.Store(b)
	return b, nil
}
