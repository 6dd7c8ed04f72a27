package kdbxinfo_test

import (
	"fmt"
	"github.com/go-andiamo/kdbxinfo"
	"github.com/go-andiamo/kdbxinfo/_test_data/databases"
	"log"
)

func ExampleParseReader() {
	f, err := databases.Open("default/release.kdbx")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	db, err := kdbxinfo.ParseReader(f, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("    Variant: %s\n", db.Signature.Variant())
	fmt.Printf("    Version: %s\n", db.Version)
	if hdr, ok := db.TLV(); ok {
		if id, ok := hdr.CipherID(); ok {
			fmt.Printf("     Cipher: %s\n", kdbxinfo.CipherName(id))
		}
		if rounds, ok := hdr.TransformRounds(); ok {
			fmt.Printf("     Rounds: %d\n", rounds)
		}
	}
	// Output:
	//     Variant: KeePass 2.x
	//     Version: 3.1
	//      Cipher: AES-256
	//      Rounds: 60000
}

func ExampleDatabase_Describe() {
	data, err := databases.Read("default/legacy.kdb")
	if err != nil {
		log.Fatal(err)
	}
	db, err := kdbxinfo.Parse(data, nil)
	if err != nil {
		log.Fatal(err)
	}
	for _, attr := range db.Describe()[:6] {
		fmt.Printf("%s: %v\n", attr.Key, attr.Value)
	}
	// Output:
	// Container: legacy
	// Variant: KeePass 1.x
	// Signature: 9AA2D903:B54BFB65
	// HeaderSize: 124
	// Flags: SHA2|Rijndael
	// Cipher: AES
}
