// Copyright (c) 2024 The illium developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package zk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/project-illium/shielded/params"
	"github.com/project-illium/shielded/zk/circuits/output"
	"github.com/project-illium/shielded/zk/circuits/spend"
)

const (
	paramsMagic   = "SHLDPRM"
	paramsVersion = 1

	headerSize = len(paramsMagic) + 2
)

type circuitID uint8

const (
	spendCircuit  circuitID = 1
	outputCircuit circuitID = 2
)

func (id circuitID) String() string {
	switch id {
	case spendCircuit:
		return "spend"
	case outputCircuit:
		return "output"
	default:
		return fmt.Sprintf("circuit(%d)", uint8(id))
	}
}

// circuit returns an empty instance of the circuit, used for compilation,
// and the number of public inputs it declares.
func (id circuitID) circuit() (frontend.Circuit, int) {
	switch id {
	case spendCircuit:
		return &spend.Circuit{}, spend.NumPublicInputs
	default:
		return &output.Circuit{}, output.NumPublicInputs
	}
}

// preparedVerifyingKey is a verifying key whose pairing constants have
// been precomputed, together with the public input arity it was checked
// against.
type preparedVerifyingKey struct {
	groth16.VerifyingKey
	nbPublic int
}

type circuitParams struct {
	id  circuitID
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  preparedVerifyingKey
}

// Parameters holds the proving and prepared verifying keys of the spend
// and output circuits. It is immutable once built and safe for concurrent
// use by any number of provers and verifiers.
type Parameters struct {
	spend  *circuitParams
	output *circuitParams
}

func (p *Parameters) circuit(id circuitID) *circuitParams {
	if id == spendCircuit {
		return p.spend
	}
	return p.output
}

func compile(id circuitID) (constraint.ConstraintSystem, error) {
	c, _ := id.circuit()
	return frontend.Compile(ecc.BLS12_381.ScalarField(), r1cs.NewBuilder, c)
}

// GenerateParameters compiles both circuits and runs a local Groth16
// setup. The toxic waste is known to this process so the result is only
// fit for tests and development networks.
func GenerateParameters() (*Parameters, error) {
	p := new(Parameters)
	for _, id := range []circuitID{spendCircuit, outputCircuit} {
		log.Info("Generating circuit parameters", log.Args("circuit", id.String()))
		ccs, err := compile(id)
		if err != nil {
			return nil, &InitError{Circuit: id.String(), Err: err}
		}
		pk, vk, err := groth16.Setup(ccs)
		if err != nil {
			return nil, &InitError{Circuit: id.String(), Err: err}
		}
		_, nbPublic := id.circuit()
		cp := &circuitParams{
			id:  id,
			ccs: ccs,
			pk:  pk,
			vk:  preparedVerifyingKey{VerifyingKey: vk, nbPublic: nbPublic},
		}
		if id == spendCircuit {
			p.spend = cp
		} else {
			p.output = cp
		}
	}
	return p, nil
}

// LoadParameters parses the spend and output parameter blobs. Either the
// whole bundle loads or an *InitError is returned.
func LoadParameters(spendParams, outputParams io.Reader) (*Parameters, error) {
	s, err := readCircuitParams(spendParams, spendCircuit)
	if err != nil {
		return nil, err
	}
	o, err := readCircuitParams(outputParams, outputCircuit)
	if err != nil {
		return nil, err
	}
	return &Parameters{spend: s, output: o}, nil
}

// LoadParametersFromDir loads the parameter files from dir.
func LoadParametersFromDir(dir string) (*Parameters, error) {
	spendFile, err := os.Open(filepath.Join(dir, params.SpendParamsFilename))
	if err != nil {
		return nil, &InitError{Circuit: spendCircuit.String(), Err: err}
	}
	defer spendFile.Close()

	outputFile, err := os.Open(filepath.Join(dir, params.OutputParamsFilename))
	if err != nil {
		return nil, &InitError{Circuit: outputCircuit.String(), Err: err}
	}
	defer outputFile.Close()

	log.Info("Loading circuit parameters", log.Args("dir", dir))
	return LoadParameters(spendFile, outputFile)
}

// MustLoadParameters is LoadParametersFromDir for process startup. It
// panics with the *InitError if the parameters cannot be loaded.
func MustLoadParameters(dir string) *Parameters {
	p, err := LoadParametersFromDir(dir)
	if err != nil {
		panic(err)
	}
	return p
}

// WriteTo writes both parameter files to dir.
func (p *Parameters) WriteTo(dir string) error {
	files := []struct {
		name string
		cp   *circuitParams
	}{
		{params.SpendParamsFilename, p.spend},
		{params.OutputParamsFilename, p.output},
	}
	for _, f := range files {
		var buf bytes.Buffer
		if err := writeCircuitParams(&buf, f.cp); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), buf.Bytes(), 0600); err != nil {
			return err
		}
	}
	return nil
}

// writeCircuitParams writes
//
//	magic || version || circuit id || len(pk) || pk || len(vk) || vk
//
// with big-endian uint64 lengths.
func writeCircuitParams(w io.Writer, cp *circuitParams) error {
	var pkBuf, vkBuf bytes.Buffer
	if _, err := cp.pk.WriteTo(&pkBuf); err != nil {
		return err
	}
	if _, err := cp.vk.WriteTo(&vkBuf); err != nil {
		return err
	}

	ser := make([]byte, 0, headerSize+16+pkBuf.Len()+vkBuf.Len())
	ser = append(ser, paramsMagic...)
	ser = append(ser, paramsVersion, byte(cp.id))
	ser = binary.BigEndian.AppendUint64(ser, uint64(pkBuf.Len()))
	ser = append(ser, pkBuf.Bytes()...)
	ser = binary.BigEndian.AppendUint64(ser, uint64(vkBuf.Len()))
	ser = append(ser, vkBuf.Bytes()...)

	_, err := w.Write(ser)
	return err
}

func readCircuitParams(r io.Reader, id circuitID) (*circuitParams, error) {
	initErr := func(err error) error {
		return &InitError{Circuit: id.String(), Err: err}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, initErr(err)
	}
	if len(data) < headerSize || string(data[:len(paramsMagic)]) != paramsMagic {
		return nil, initErr(errors.New("not a parameter file"))
	}
	if data[len(paramsMagic)] != paramsVersion {
		return nil, initErr(fmt.Errorf("unsupported version %d", data[len(paramsMagic)]))
	}
	if circuitID(data[len(paramsMagic)+1]) != id {
		return nil, initErr(fmt.Errorf("file holds %s parameters", circuitID(data[len(paramsMagic)+1])))
	}
	rest := data[headerSize:]

	pkBytes, rest, err := readSection(rest)
	if err != nil {
		return nil, initErr(fmt.Errorf("proving key: %w", err))
	}
	vkBytes, rest, err := readSection(rest)
	if err != nil {
		return nil, initErr(fmt.Errorf("verifying key: %w", err))
	}
	if len(rest) != 0 {
		return nil, initErr(errors.New("trailing bytes"))
	}

	pk := groth16.NewProvingKey(ecc.BLS12_381)
	if err := readExactly(pk, pkBytes); err != nil {
		return nil, initErr(fmt.Errorf("proving key: %w", err))
	}
	vk := groth16.NewVerifyingKey(ecc.BLS12_381)
	if err := readExactly(vk, vkBytes); err != nil {
		return nil, initErr(fmt.Errorf("verifying key: %w", err))
	}

	_, nbPublic := id.circuit()
	if vk.NbPublicWitness() != nbPublic {
		return nil, initErr(fmt.Errorf("verifying key has %d public inputs, circuit has %d", vk.NbPublicWitness(), nbPublic))
	}

	ccs, err := compile(id)
	if err != nil {
		return nil, initErr(err)
	}
	return &circuitParams{
		id:  id,
		ccs: ccs,
		pk:  pk,
		vk:  preparedVerifyingKey{VerifyingKey: vk, nbPublic: nbPublic},
	}, nil
}

func readSection(b []byte) ([]byte, []byte, error) {
	if len(b) < 8 {
		return nil, nil, io.ErrUnexpectedEOF
	}
	n := binary.BigEndian.Uint64(b[:8])
	b = b[8:]
	if n > uint64(len(b)) {
		return nil, nil, io.ErrUnexpectedEOF
	}
	return b[:n], b[n:], nil
}

func readExactly(from io.ReaderFrom, b []byte) error {
	r := bytes.NewReader(b)
	if _, err := from.ReadFrom(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return errors.New("trailing bytes")
	}
	return nil
}
